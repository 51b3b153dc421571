package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
	"github.com/dleads/stakeados.app-sub003/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagThreshold        float64
	flagDays             int
	flagRisk             string
	flagIncludeProcessed bool
)

var duplicatesCmd = &cobra.Command{
	Use:     "duplicates",
	Aliases: []string{"dup"},
	Short:   "List and resolve duplicate article groups",
}

var duplicatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List duplicate groups reported by the detector",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, sel, err := newSelector(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.APITimeout())
		defer cancel()
		if err := sel.Refresh(ctx); err != nil {
			return err
		}

		groups := sel.Groups()
		if len(groups) == 0 {
			e.out.Info("No duplicate groups.")
			return nil
		}
		return renderGroups(e.out, groups)
	},
}

var duplicatesResolveCmd = &cobra.Command{
	Use:   "resolve <group-id>...",
	Short: "Keep each group's primary and delete its duplicates",
	Long: `Fetch the current duplicate groups, select the named ones and resolve them
one by one. A failed group does not stop the others and nothing is rolled back.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, sel, err := newSelector(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := sel.Refresh(ctx); err != nil {
			return err
		}
		selectGroups(sel, args)

		outcomes := sel.ResolveSelected(ctx)
		failed := reportOutcomes(e.out, outcomes)
		if err := sel.Err(); err != nil && failed == 0 {
			e.out.Warning("refetch after resolve failed: %v", err)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d group(s) not resolved", failed, len(outcomes))
		}
		return nil
	},
}

// selectGroups adds ids to the selection; repeated ids are selected once.
func selectGroups(sel *dedupe.Selector, ids []string) {
	for _, id := range ids {
		if !sel.IsSelected(id) {
			sel.Toggle(id)
		}
	}
}

// reportOutcomes prints one line per resolved group and returns the number
// of groups that failed.
func reportOutcomes(out *output.Printer, outcomes []dedupe.Outcome) int {
	failed := 0
	for _, o := range outcomes {
		switch {
		case errors.Is(o.Err, dedupe.ErrUnknownGroup):
			failed++
			out.Warning("%s: not in the current duplicate list", o.GroupID)
		case o.Err != nil:
			failed++
			out.Error("%s: %v", o.GroupID, o.Err)
		default:
			out.Success("resolved %s", o.GroupID)
		}
	}
	return failed
}

func init() {
	for _, c := range []*cobra.Command{duplicatesListCmd, duplicatesResolveCmd} {
		c.Flags().Float64Var(&flagThreshold, "threshold", 0, "minimum similarity, 0.5 to 1.0 (default from config)")
		c.Flags().IntVar(&flagDays, "days", 0, "look back this many days (default from config)")
		c.Flags().StringVar(&flagRisk, "risk", "", "only low, medium or high risk groups; all for any")
		c.Flags().BoolVar(&flagIncludeProcessed, "include-processed", false, "include articles already processed")
	}
	duplicatesCmd.AddCommand(duplicatesListCmd)
	duplicatesCmd.AddCommand(duplicatesResolveCmd)
}

// newSelector loads the config filter and applies any flags the user set.
func newSelector(cmd *cobra.Command) (*env, *dedupe.Selector, error) {
	e, err := loadEnv(nil)
	if err != nil {
		return nil, nil, err
	}
	f, err := e.cfg.DuplicateFilter()
	if err != nil {
		return nil, nil, fmt.Errorf("duplicates config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		f.SimilarityThreshold = flagThreshold
	}
	if flags.Changed("days") {
		f.DateRangeDays = flagDays
	}
	if flags.Changed("risk") {
		if f.RiskLevel, err = dedupe.ParseRiskLevel(flagRisk); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("include-processed") {
		f.IncludeProcessed = flagIncludeProcessed
	}

	if err := f.Validate(); err != nil {
		return nil, nil, err
	}
	return e, dedupe.NewSelector(e.client, f, e.log), nil
}

func renderGroups(out *output.Printer, groups []dedupe.Group) error {
	tbl := output.NewTable(out.Out(), []string{"GROUP", "PRIMARY", "DUPS", "SIMILARITY", "RISK"})
	for _, g := range groups {
		tbl.AddRow(
			g.ID,
			truncate(g.Primary.Title, 60),
			strconv.Itoa(len(g.Duplicates)),
			fmt.Sprintf("%.0f%%", g.MaxSimilarity()*100),
			out.RiskBadge(string(g.RiskLevel)),
		)
	}
	return tbl.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
