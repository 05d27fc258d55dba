package models

// Location is the narrative around the place a role is standing in
type Location struct {
	FriendLocation string   `yaml:"friend_location"`
	Atmosphere     string   `yaml:"atmosphere"`
	Notes          []string `yaml:"notes"`
}
