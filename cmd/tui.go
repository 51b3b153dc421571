package cmd

import (
	"fmt"

	"github.com/dleads/stakeados.app-sub003/internal/config"
	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
	"github.com/dleads/stakeados.app-sub003/internal/logging"
	"github.com/dleads/stakeados.app-sub003/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	logFile, err := logging.OpenFile(config.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	e, err := loadEnv(logFile)
	if err != nil {
		return err
	}

	filter, err := e.cfg.DuplicateFilter()
	if err != nil {
		return fmt.Errorf("duplicates config: %w", err)
	}

	e.log.Info("starting duplicate review", "api", e.client.BaseURL(), "version", version)
	sel := dedupe.NewSelector(e.client, filter, e.log)
	return tui.Run(tui.RunOpts{Context: cmd.Context(), Selector: sel, Logger: e.log})
}
