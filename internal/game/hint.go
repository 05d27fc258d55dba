package game

import (
	"fmt"
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// Hint dispenses one context-aware hint, at most once per HintCooldown for
// the whole team. During the cooldown nothing is mutated. role may be empty
// when the hint is meant for both friends.
func (e *Engine) Hint(id string, role models.Role) (*HintResult, error) {
	var res *HintResult
	err := e.withTeam(id, func(team *models.Team) error {
		now := e.clock.Now()

		if !team.LastHintTime.IsZero() {
			since := now.Sub(team.LastHintTime)
			if since < HintCooldown {
				res = &HintResult{
					Cooldown:  true,
					Remaining: wholeSeconds(HintCooldown) - wholeSeconds(since),
					Role:      role,
				}
				return nil
			}
		}

		team.LastHintTime = now
		if state := team.Role(role); state != nil {
			state.HintsUsed++
		}

		hint := NextHint(team, role, now)
		team.Hints = append(team.Hints, models.HintRecord{Time: now, Role: role, Hint: hint})

		res = &HintResult{
			Hint:           hint,
			Role:           role,
			HintsUsedTotal: team.HintsUsed(),
		}
		e.logger.Debug("hint given", "team_id", id, "role", role)
		return nil
	})
	return res, err
}

// NextHint walks the hint ladder. It only reads team and is deterministic for
// a given team, role and now.
func NextHint(team *models.Team, role models.Role, now time.Time) string {
	if team.Escaped {
		return fmt.Sprintf("You've already escaped! Get your escape key at GET /%s/key", team.ID)
	}

	if !team.HasStep(models.StepLookEleven) || !team.HasStep(models.StepLookMike) {
		return "🔍 Start by having both Eleven and Mike look around their locations using GET endpoints"
	}

	if !team.HasStep(models.StepSendItem) {
		switch role {
		case models.RoleMike:
			return "📦 Mike should send the demogorgon tooth to Eleven using POST /send_item"
		case models.RoleEleven:
			return "📻 Eleven needs the demogorgon tooth from Mike. Ask Mike to send it!"
		default:
			return "Mike needs to send the demogorgon tooth to Eleven using POST /send_item"
		}
	}

	if !team.HasStep(models.StepUseItem) {
		if role == models.RoleEleven {
			return "🔧 Eleven should combine the radio and demogorgon tooth using PUT /use_item with action='combine_radio_tooth'"
		}
		return "Eleven needs to combine the radio and tooth. Tell Eleven to use PUT /use_item"
	}

	if !team.HasStep(models.StepFix) {
		if role == models.RoleEleven {
			return "📡 Eleven should scan for the gate frequency using PATCH /fix with action='scan_frequency'"
		}
		return "Eleven needs to scan for the gate frequency with the tuned radio"
	}

	if !team.HasStep(models.StepRemove) {
		if role == models.RoleMike {
			return fmt.Sprintf("🔢 Mike needs to use the code '%s' on the gate control panel using DELETE /remove", GateCode)
		}
		return fmt.Sprintf("Mike needs the code '%s' to activate the gate panel. It was revealed by Eleven's radio!", GateCode)
	}

	if !team.HasStep(models.StepStatus) {
		return fmt.Sprintf("📊 Check dimension synchronization with HEAD /%s/status", team.ID)
	}

	if !team.HasStep(models.StepOptions) {
		return fmt.Sprintf("ℹ️ Check escape requirements with OPTIONS /%s/escape", team.ID)
	}

	if len(team.EscapeAttempts) < 2 {
		if role == models.RoleEleven && !team.Eleven.HasFrequency {
			return "Eleven isn't ready! The frequency has to be found first"
		}
		if role == models.RoleMike && !team.Mike.HasGatePanel {
			return "Mike isn't ready! The gate panel has to be activated first"
		}

		if n := len(team.EscapeAttempts); n > 0 {
			since := now.Sub(team.EscapeAttempts[n-1].Time)
			if since > EscapeWindow {
				return fmt.Sprintf("⏰ Last escape attempt expired! Both must POST /escape within %d seconds. Try again!", wholeSeconds(EscapeWindow))
			}
			return fmt.Sprintf("⏱️ Hurry! %d seconds left for the other friend to escape!", wholeSeconds(EscapeWindow)-wholeSeconds(since))
		}

		switch role {
		case models.RoleEleven:
			return fmt.Sprintf("🚪 Eleven should attempt escape first using POST /escape. Mike must follow within %d seconds!", wholeSeconds(EscapeWindow))
		case models.RoleMike:
			return fmt.Sprintf("🚪 Wait for Eleven to attempt escape first, then Mike must follow within %d seconds!", wholeSeconds(EscapeWindow))
		default:
			return fmt.Sprintf("Both friends must POST /escape within %d seconds of each other! Eleven should go first", wholeSeconds(EscapeWindow))
		}
	}

	return "Check your items and make sure both friends are ready. Then coordinate escape attempts!"
}
