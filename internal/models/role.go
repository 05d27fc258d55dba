package models

import "time"

// Role identifies one of the two cooperating friends
type Role string

const (
	RoleEleven Role = "Eleven"
	RoleMike   Role = "Mike"
)

// Roles lists the valid roles in display order
var Roles = []Role{RoleEleven, RoleMike}

// Valid reports whether r is one of the two known roles
func (r Role) Valid() bool {
	return r == RoleEleven || r == RoleMike
}

// RoleState is the private state of one role inside a team
type RoleState struct {
	Location       string
	Items          []string
	HasFrequency   bool // Eleven's readiness flag
	HasGatePanel   bool // Mike's readiness flag
	HintsUsed      int
	LastActionTime time.Time
}

// Ready reports whether this role's readiness flag is set.
// Eleven needs the frequency, Mike needs the activated gate panel.
func (s *RoleState) Ready(role Role) bool {
	switch role {
	case RoleEleven:
		return s.HasFrequency
	case RoleMike:
		return s.HasGatePanel
	default:
		return false
	}
}

// HasItem reports whether the inventory holds an exact item name
func (s *RoleState) HasItem(item string) bool {
	for _, it := range s.Items {
		if it == item {
			return true
		}
	}
	return false
}

// RemoveItem removes the first occurrence of item; it returns false when absent
func (s *RoleState) RemoveItem(item string) bool {
	for i, it := range s.Items {
		if it == item {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return true
		}
	}
	return false
}

// AddItem appends item to the inventory
func (s *RoleState) AddItem(item string) {
	s.Items = append(s.Items, item)
}
