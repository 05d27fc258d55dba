package game

import "time"

const (
	// EscapeWindow is the largest gap allowed between the two most recent escape attempts
	EscapeWindow = 10 * time.Second

	// HintCooldown is the team-wide wait between two dispensed hints
	HintCooldown = 30 * time.Second

	// GateCode is the code revealed by the frequency scan and typed into Mike's panel
	GateCode = "0110"

	// TeamIDLength is the length of generated team IDs
	TeamIDLength = 8

	// EscapeKeyPrefix starts every synthesized escape key
	EscapeKeyPrefix = "ESCAPE_"
)

// Items
const (
	ItemRadio          = "radio"
	ItemNote           = "note: 'need demogorgon frequency'"
	ItemTooth          = "demogorgon tooth"
	ItemWalkieTalkie   = "broken walkie-talkie"
	ItemTunedRadio     = "tuned radio"
	ItemFrequency      = "frequency reading"
	ItemActivatedPanel = "activated gate panel"

	// radioPrefix matches every radio variant that can be combined with the tooth
	radioPrefix = "radio"
)

// Actions accepted by the use_item and fix endpoints
const (
	ActionCombineRadioTooth = "combine_radio_tooth"
	ActionScanFrequency     = "scan_frequency"
)

// DefaultItems returns fresh starting inventories
func DefaultItems() (eleven, mike []string) {
	return []string{ItemRadio, ItemNote}, []string{ItemTooth, ItemWalkieTalkie}
}
