package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dleads/stakeados.app-sub003/internal/config"
	"github.com/dleads/stakeados.app-sub003/internal/output"
	"github.com/dleads/stakeados.app-sub003/internal/schedule"
	"github.com/spf13/cobra"
)

var (
	flagAt      string
	flagPattern string
	flagEvery   string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Preview or submit recurring publication schedules",
}

var schedulePreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the next publication dates for a pattern",
	Long: `Print the anchor and the following publication dates for a pattern.

--at accepts most date layouts ("2026-11-02 09:00", "Nov 2 2026 9am") or an
offset from now such as +3d or +90m. A custom pattern reads its step from
--every, e.g. --every "3 days". An unreadable --every shows only the anchor.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}
		anchor, pattern, err := scheduleInput(e.cfg, time.Now(), cmd.Flags().Changed("pattern"))
		if err != nil {
			return err
		}

		dates := schedule.Project(anchor, pattern, flagEvery)
		if pattern == schedule.PatternCustom && len(dates) == 1 {
			e.out.Warning("could not read --every %q; showing the anchor only", flagEvery)
		}
		printPreview(e.out, pattern, dates)
		return nil
	},
}

var scheduleSubmitCmd = &cobra.Command{
	Use:   "submit <article-id>",
	Short: "Schedule an article for recurring publication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}
		now := time.Now()
		anchor, pattern, err := scheduleInput(e.cfg, now, cmd.Flags().Changed("pattern"))
		if err != nil {
			return err
		}

		spec, err := schedule.NewSpec(anchor, pattern, flagEvery)
		if err != nil {
			return err
		}
		if err := spec.Validate(now); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.APITimeout())
		defer cancel()
		if err := e.client.SubmitSchedule(ctx, args[0], spec); err != nil {
			return err
		}

		e.out.Success("scheduled %s (%s)", args[0], patternLabel(spec.Pattern, spec.Descriptor()))
		printPreview(e.out, spec.Pattern, spec.Preview())
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{schedulePreviewCmd, scheduleSubmitCmd} {
		c.Flags().StringVar(&flagAt, "at", "", "first publication time, a date or an offset like +3d (required)")
		c.Flags().StringVar(&flagPattern, "pattern", "", "none, daily, weekly, biweekly, monthly or custom (default from config)")
		c.Flags().StringVar(&flagEvery, "every", "", `custom step such as "3 days" or "2 weeks"`)
		_ = c.MarkFlagRequired("at")
	}
	scheduleCmd.AddCommand(schedulePreviewCmd)
	scheduleCmd.AddCommand(scheduleSubmitCmd)
}

// scheduleInput resolves --at and the pattern. --every alone implies a
// custom pattern; with an explicit non-custom --pattern it is a usage error.
func scheduleInput(cfg *config.Config, now time.Time, patternSet bool) (time.Time, schedule.Pattern, error) {
	anchor, err := parseAt(flagAt, now)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid --at value: %w", err)
	}

	pattern := cfg.DefaultPattern()
	switch {
	case patternSet:
		if pattern, err = schedule.ParsePattern(flagPattern); err != nil {
			return time.Time{}, "", err
		}
		if flagEvery != "" && pattern != schedule.PatternCustom {
			return time.Time{}, "", fmt.Errorf("--every only applies to --pattern custom, got --pattern %s", pattern)
		}
	case flagEvery != "":
		pattern = schedule.PatternCustom
	}
	return anchor, pattern, nil
}

// parseAt reads an absolute date in the local zone or a "+<duration>"
// offset from now. Offsets accept the whole-day form, e.g. +2d.
func parseAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return time.Time{}, fmt.Errorf("empty time")
	case strings.EqualFold(s, "now"):
		return now, nil
	case strings.HasPrefix(s, "+"):
		d, err := config.ParseDuration(s[1:])
		if err != nil {
			return time.Time{}, err
		}
		if d <= 0 {
			return time.Time{}, fmt.Errorf("offset %q must be positive", s)
		}
		return now.Add(d), nil
	}
	return dateparse.ParseIn(s, now.Location())
}

func patternLabel(p schedule.Pattern, descriptor string) string {
	if p == schedule.PatternCustom && descriptor != "" {
		return "every " + descriptor
	}
	return p.String()
}

func printPreview(out *output.Printer, p schedule.Pattern, dates []time.Time) {
	out.Header(fmt.Sprintf("Publication dates (%s)", p))
	for i, d := range dates {
		label := "   "
		if i == 0 {
			label = " * "
		}
		out.Print("%s%s", label, d.Format("Mon Jan 2 2006 15:04 MST"))
	}
	if len(dates) == schedule.Occurrences {
		out.Print("%s", out.Dim("   ..."))
	}
}
