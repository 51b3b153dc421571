package cmd

import (
	"fmt"
	"strconv"

	"github.com/dleads/stakeados.app-sub003/internal/cache"
	"github.com/dleads/stakeados.app-sub003/internal/config"
	"github.com/dleads/stakeados.app-sub003/internal/domain"
	"github.com/dleads/stakeados.app-sub003/internal/output"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local reference-data cache",
}

var pruneCmd = &cobra.Command{
	Use:   "prune [authors|categories|tags]...",
	Short: "Remove cached reference data",
	Long: `Delete cached reference rows and reclaim disk space.

With no arguments every kind is cleared. The next read fetches from the CMS.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := make([]domain.RefKind, 0, len(args))
		for _, a := range args {
			k, err := domain.ParseRefKind(a)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		deleted, err := db.Prune(kinds...)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := output.NewPrinter(!flagNoColor && output.ResolveColors())
		if deleted == 0 {
			out.Info("Nothing to prune.")
		} else {
			out.Success("Pruned %d cached row(s).", deleted)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		st, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := output.NewPrinter(!flagNoColor && output.ResolveColors())
		out.Print("Cache: %s", st.Path)
		out.Print("Rows:  %d", st.Total())
		out.Print("Size:  %s", formatBytes(st.Size))

		tbl := output.NewTable(out.Out(), []string{"KIND", "ROWS", "FETCHED"})
		for _, ks := range st.Kinds {
			fetched := "never"
			if !ks.LastFetched.IsZero() {
				fetched = ks.LastFetched.Local().Format("2006-01-02 15:04")
			}
			tbl.AddRow(ks.Kind.String(), strconv.Itoa(ks.Count), fetched)
		}
		return tbl.Render()
	},
}

func init() {
	cacheCmd.AddCommand(pruneCmd)
	cacheCmd.AddCommand(statsCmd)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
