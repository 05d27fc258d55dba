package game

import (
	"slices"
	"strconv"
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// Look records the look-around step for role and returns what the role sees
func (e *Engine) Look(id string, role models.Role) (*LookResult, error) {
	var res *LookResult
	err := e.withTeam(id, func(team *models.Team) error {
		state := team.Role(role)
		if state == nil {
			return newPreconditionFailed(id, "Unknown friend '"+string(role)+"'")
		}
		step := models.StepLookEleven
		if role == models.RoleMike {
			step = models.StepLookMike
		}
		team.RecordStep(step)
		res = &LookResult{
			Role:       role,
			Location:   state.Location,
			GateLocked: !team.Escaped,
			Items:      slices.Clone(state.Items),
		}
		return nil
	})
	return res, err
}

// SendItem moves an item across dimensions. Only Mike sending the tooth is a
// valid combination.
func (e *Engine) SendItem(id string, from models.Role, item string) (*ActionResult, error) {
	var res *ActionResult
	err := e.withTeam(id, func(team *models.Team) error {
		team.RecordStep(models.StepSendItem)

		if from != models.RoleMike || item != ItemTooth {
			res = &ActionResult{
				Failure: FailureInvalidAction,
				Message: "Cannot send that item. Only Mike can send 'demogorgon tooth'",
			}
			return nil
		}
		if !team.Mike.HasItem(ItemTooth) {
			res = &ActionResult{
				Failure:   FailurePreconditionFailed,
				Message:   "Mike doesn't have the demogorgon tooth",
				MikeItems: slices.Clone(team.Mike.Items),
			}
			return nil
		}

		now := e.clock.Now()
		team.Mike.RemoveItem(ItemTooth)
		team.Eleven.AddItem(ItemTooth)
		team.Mike.LastActionTime = now

		res = &ActionResult{
			Success:     true,
			Message:     "Demogorgon tooth sent to Eleven!",
			NextAction:  "Eleven: Combine radio and tooth (PUT /use_item)",
			ElevenItems: slices.Clone(team.Eleven.Items),
			MikeItems:   slices.Clone(team.Mike.Items),
		}
		e.logger.Debug("item sent", "team_id", id, "item", item)
		return nil
	})
	return res, err
}

// UseItem combines Eleven's radio with the demogorgon tooth into a tuned radio
func (e *Engine) UseItem(id string, role models.Role, action string) (*ActionResult, error) {
	var res *ActionResult
	err := e.withTeam(id, func(team *models.Team) error {
		team.RecordStep(models.StepUseItem)

		eleven := team.Eleven
		if role != models.RoleEleven || action != ActionCombineRadioTooth ||
			!slices.ContainsFunc(eleven.Items, isRadio) || !eleven.HasItem(ItemTooth) {
			res = &ActionResult{
				Failure:     FailurePreconditionFailed,
				Message:     "Cannot combine. Eleven needs both 'radio' and 'demogorgon tooth'",
				ElevenItems: slices.Clone(eleven.Items),
			}
			return nil
		}

		eleven.Items = slices.DeleteFunc(eleven.Items, func(item string) bool {
			return isRadio(item) || item == ItemTooth
		})
		eleven.AddItem(ItemTunedRadio)
		eleven.LastActionTime = e.clock.Now()

		res = &ActionResult{
			Success:     true,
			Message:     "Tuned radio created! The radio now picks up interdimensional signals",
			NextAction:  "Scan for gate frequency: PATCH /fix with action='scan_frequency'",
			ElevenItems: slices.Clone(eleven.Items),
		}
		e.logger.Debug("radio tuned", "team_id", id)
		return nil
	})
	return res, err
}

// Fix scans for the gate frequency with the tuned radio. A successful scan
// sets Eleven's readiness flag and reveals the gate code. Scanning works once:
// the frequency reading it produces blocks a second scan.
func (e *Engine) Fix(id string, role models.Role, action string) (*ActionResult, error) {
	var res *ActionResult
	err := e.withTeam(id, func(team *models.Team) error {
		team.RecordStep(models.StepFix)

		eleven := team.Eleven
		if role != models.RoleEleven || action != ActionScanFrequency || !eleven.HasItem(ItemTunedRadio) {
			res = &ActionResult{
				Failure:     FailurePreconditionFailed,
				Message:     "Cannot scan frequency. Eleven needs 'tuned radio' first",
				ElevenItems: slices.Clone(eleven.Items),
			}
			return nil
		}
		if eleven.HasItem(ItemFrequency) {
			res = &ActionResult{
				Failure:     FailurePreconditionFailed,
				Message:     "Frequency already scanned. Mike still needs the code on the gate control panel",
				ElevenItems: slices.Clone(eleven.Items),
			}
			return nil
		}

		eleven.HasFrequency = true
		eleven.AddItem(ItemFrequency)
		eleven.LastActionTime = e.clock.Now()

		res = &ActionResult{
			Success:      true,
			Message:      "Frequency found! The radio reveals the gate code",
			CodeRevealed: GateCode,
			NextAction:   "Tell Mike to use code '" + GateCode + "' on the gate control panel (DELETE /remove)",
			ElevenItems:  slices.Clone(eleven.Items),
		}
		e.logger.Info("frequency found", "team_id", id)
		return nil
	})
	return res, err
}

// Remove activates Mike's gate control panel with the revealed code. A wrong
// code and a missing walkie-talkie are reported the same way.
func (e *Engine) Remove(id string, role models.Role, code string) (*ActionResult, error) {
	var res *ActionResult
	err := e.withTeam(id, func(team *models.Team) error {
		team.RecordStep(models.StepRemove)

		mike := team.Mike
		if role != models.RoleMike || code != GateCode || !mike.HasItem(ItemWalkieTalkie) {
			res = &ActionResult{
				Failure:   FailurePreconditionFailed,
				Message:   "Cannot activate panel. Mike needs 'broken walkie-talkie' and correct code '" + GateCode + "'",
				MikeItems: slices.Clone(mike.Items),
			}
			return nil
		}

		mike.RemoveItem(ItemWalkieTalkie)
		mike.AddItem(ItemActivatedPanel)
		mike.HasGatePanel = true
		mike.LastActionTime = e.clock.Now()

		res = &ActionResult{
			Success:    true,
			Message:    "Gate control panel activated! The gate starts to stabilize",
			NextAction: "Both friends ready for escape! Coordinate final POST /escape within 10 seconds",
			MikeItems:  slices.Clone(mike.Items),
		}
		e.logger.Info("gate panel activated", "team_id", id)
		return nil
	})
	return res, err
}

// Status is the lightweight readiness probe behind HEAD /status
func (e *Engine) Status(id string) (*StatusProbe, error) {
	var res *StatusProbe
	err := e.withTeam(id, func(team *models.Team) error {
		team.RecordStep(models.StepStatus)
		res = &StatusProbe{
			Escaped:     team.Escaped,
			ElevenReady: team.Eleven.HasFrequency,
			MikeReady:   team.Mike.HasGatePanel,
			Sync:        team.BothReady(),
			Elapsed:     e.clock.Now().Sub(team.StartTime),
		}
		return nil
	})
	return res, err
}

// EscapeOptions is the escape-capability probe behind OPTIONS /escape
func (e *Engine) EscapeOptions(id string) (*EscapeRequirements, error) {
	err := e.withTeam(id, func(team *models.Team) error {
		team.RecordStep(models.StepOptions)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &EscapeRequirements{
		Allow:         "POST",
		Requires:      "Both friends POST within " + formatSeconds(EscapeWindow) + " seconds",
		Preconditions: "Eleven needs frequency, Mike needs activated gate",
		Warning:       "Gate unstable - must synchronize perfectly",
	}, nil
}

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(wholeSeconds(d))
}
