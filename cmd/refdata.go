package cmd

import (
	"fmt"

	"github.com/dleads/stakeados.app-sub003/internal/cache"
	"github.com/dleads/stakeados.app-sub003/internal/config"
	"github.com/dleads/stakeados.app-sub003/internal/domain"
	"github.com/dleads/stakeados.app-sub003/internal/output"
	"github.com/dleads/stakeados.app-sub003/internal/refdata"
	"github.com/spf13/cobra"
)

var flagRefRefresh bool

var refdataCmd = &cobra.Command{
	Use:       "refdata [authors|categories|tags]",
	Short:     "Show the authors, categories and tags used by the editor forms",
	Long:      "Reads reference data through the local cache, fetching from the CMS when the copy is older than reference.ttl.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"authors", "categories", "tags"},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}

		kinds := domain.AllRefKinds()
		if len(args) == 1 {
			k, err := domain.ParseRefKind(args[0])
			if err != nil {
				return err
			}
			kinds = []domain.RefKind{k}
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		svc := refdata.New(e.client, db, e.cfg.ReferenceTTL(), e.log)
		ctx := cmd.Context()
		if len(kinds) > 1 && !flagRefRefresh {
			if err := svc.Warm(ctx); err != nil {
				e.out.Warning("some reference data could not be loaded: %v", err)
			}
		}

		for _, k := range kinds {
			var items []domain.RefItem
			if flagRefRefresh {
				items, err = svc.Refresh(ctx, k)
			} else {
				items, err = svc.Get(ctx, k)
			}
			if err != nil {
				e.out.Error("%s: %v", k, err)
				continue
			}

			e.out.Header(fmt.Sprintf("%s (%d)", k, len(items)))
			if len(items) == 0 {
				continue
			}
			tbl := output.NewTable(e.out.Out(), []string{"ID", "NAME", "SLUG"})
			for _, it := range items {
				tbl.AddRow(it.ID, it.Name, it.Slug)
			}
			if err := tbl.Render(); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	refdataCmd.Flags().BoolVar(&flagRefRefresh, "refresh", false, "fetch from the CMS even if the cache is fresh")
}
