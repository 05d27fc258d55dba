package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/aaronzipp/escape-the-upside-down/internal/client"
	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/models"
	"github.com/aaronzipp/escape-the-upside-down/internal/render"
)

// PlayOptions holds the flags of the play command
type PlayOptions struct {
	URL     string
	Team    string
	Timeout time.Duration
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	keyStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
)

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the whole puzzle against a running server",
		Long: `Play the whole puzzle against a running server.

Every endpoint is called in walkthrough order, and both friends press the
escape button at the same time. Afterwards hints are requested for Eleven,
Mike and both friends; all but the first hit the team's hint cooldown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("url") {
				cfg, err := loadConfig(cmd, rootOpts)
				if err != nil {
					return err
				}
				opts.URL = cfg.Server.PublicURL
			}
			c := client.New(opts.URL, opts.Timeout)
			_, err := Play(cmd.Context(), c, opts.Team, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "server base URL (default is the configured server.public_url)")
	cmd.Flags().StringVar(&opts.Team, "team", "The Party", "team name")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")

	return cmd
}

// PlayReport summarizes a finished walkthrough
type PlayReport struct {
	TeamID    string
	EscapeKey string
	Escapes   map[models.Role]*render.Escape
	Key       *render.Key
	Hints     []*render.Hint // Eleven, Mike, both, in request order
	Status    *render.TeamStatus
}

// printer writes one styled line per step
type printer struct {
	w io.Writer
}

func (p printer) ok(step, detail string) {
	fmt.Fprintf(p.w, "%s %-28s %s\n", okStyle.Render("✓"), step, dimStyle.Render(detail))
}

func (p printer) warn(step, detail string) {
	fmt.Fprintf(p.w, "%s %-28s %s\n", warnStyle.Render("!"), step, detail)
}

func (p printer) fail(step, detail string) {
	fmt.Fprintf(p.w, "%s %-28s %s\n", failStyle.Render("✗"), step, detail)
}

// actionStep runs one puzzle step and fails the walkthrough on rejection
func (p printer) actionStep(step string, res *render.Action, err error) error {
	if err != nil {
		p.fail(step, err.Error())
		return err
	}
	if !res.Success {
		p.fail(step, res.Message)
		return fmt.Errorf("%s rejected: %s", step, res.Message)
	}
	p.ok(step, res.Message)
	return nil
}

// Play drives the team through every endpoint and a concurrent escape
func Play(ctx context.Context, c *client.Client, team string, w io.Writer) (*PlayReport, error) {
	p := printer{w: w}
	fmt.Fprintln(w, titleStyle.Render("Escape the Upside Down"))

	overview, err := c.Overview(ctx)
	if err != nil {
		p.fail("GET /", err.Error())
		return nil, err
	}
	p.ok("GET /", fmt.Sprintf("server is up, %d teams so far", overview.TotalTeams))

	created, err := c.CreateTeam(ctx, team)
	if err != nil {
		p.fail("POST /create_team", err.Error())
		return nil, err
	}
	p.ok("POST /create_team", created.Message)
	id := created.TeamID
	report := &PlayReport{TeamID: id, Escapes: make(map[models.Role]*render.Escape)}

	for _, role := range models.Roles {
		look, err := c.Look(ctx, id, role)
		step := fmt.Sprintf("GET /%s/%s", id, lowerRole(role))
		if err != nil {
			p.fail(step, err.Error())
			return report, err
		}
		p.ok(step, look.Location)
	}

	res, err := c.SendItem(ctx, id, models.RoleMike, game.ItemTooth)
	if err := p.actionStep("POST /send_item", res, err); err != nil {
		return report, err
	}
	res, err = c.UseItem(ctx, id, models.RoleEleven, game.ActionCombineRadioTooth)
	if err := p.actionStep("PUT /use_item", res, err); err != nil {
		return report, err
	}
	res, err = c.Fix(ctx, id, models.RoleEleven, game.ActionScanFrequency)
	if err := p.actionStep("PATCH /fix", res, err); err != nil {
		return report, err
	}
	res, err = c.Remove(ctx, id, models.RoleMike, res.CodeRevealed)
	if err := p.actionStep("DELETE /remove", res, err); err != nil {
		return report, err
	}

	probe, err := c.Status(ctx, id)
	if err != nil {
		p.fail("HEAD /status", err.Error())
		return report, err
	}
	p.ok("HEAD /status", "dimension sync "+probe.DimensionSync)

	reqs, err := c.EscapeOptions(ctx, id)
	if err != nil {
		p.fail("OPTIONS /escape", err.Error())
		return report, err
	}
	p.ok("OPTIONS /escape", reqs.Requires)

	if err := escapeTogether(ctx, c, id, report); err != nil {
		p.fail("POST /escape", err.Error())
		return report, err
	}
	p.ok("POST /escape", "both friends jumped")

	key, err := c.Key(ctx, id)
	if err != nil {
		p.fail("GET /key", err.Error())
		return report, err
	}
	p.ok("GET /key", key.TimeTaken)
	report.Key = key
	report.EscapeKey = key.EscapeKey

	if err := askHints(ctx, p, c, id, report); err != nil {
		return report, err
	}

	status, err := c.TeamStatus(ctx, id)
	step := "GET /team_status/" + id
	if err != nil {
		p.fail(step, err.Error())
		return report, err
	}
	p.ok(step, fmt.Sprintf("%s, %d steps, %d escape attempts", status.Phase, len(status.StepsCompleted), status.EscapeAttempts))
	report.Status = status

	teams, err := c.AllTeams(ctx)
	if err != nil {
		p.fail("GET /admin/all_teams", err.Error())
		return report, err
	}
	p.ok("GET /admin/all_teams", fmt.Sprintf("%d teams, %d escaped", teams.TotalTeams, teams.EscapedTeams))

	fmt.Fprintln(w, keyStyle.Render(key.Certificate+"\n"+key.EscapeKey))
	return report, nil
}

// askHints requests a hint for each friend and then for both. A cooldown
// answer is reported as a warning and does not fail the walkthrough.
func askHints(ctx context.Context, p printer, c *client.Client, id string, report *PlayReport) error {
	for _, role := range []models.Role{models.RoleEleven, models.RoleMike, ""} {
		step := fmt.Sprintf("GET /%s/hint", id)
		if role != "" {
			step += "?friend=" + string(role)
		}
		hint, err := c.Hint(ctx, id, role)
		if err != nil {
			p.fail(step, err.Error())
			return err
		}
		report.Hints = append(report.Hints, hint)
		if hint.Warning != "" {
			p.warn(step, "cooldown, "+hint.TimeRemaining+" remaining")
			continue
		}
		p.ok(step, hint.Hint)
	}
	return nil
}

// escapeTogether fires both escape requests at once; the server pairs them
func escapeTogether(ctx context.Context, c *client.Client, id string, report *PlayReport) error {
	results := make([]*render.Escape, len(models.Roles))
	errs := make([]error, len(models.Roles))

	var wg conc.WaitGroup
	for i, role := range models.Roles {
		wg.Go(func() {
			results[i], errs[i] = c.Escape(ctx, id, role)
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}
	escaped := false
	for i, role := range models.Roles {
		report.Escapes[role] = results[i]
		escaped = escaped || results[i].Success
	}
	if !escaped {
		return errors.New("escape attempts were not synchronized")
	}
	return nil
}

func lowerRole(role models.Role) string {
	if role == models.RoleMike {
		return "mike"
	}
	return "eleven"
}
