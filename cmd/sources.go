package cmd

import (
	"fmt"
	"strconv"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
	"github.com/dleads/stakeados.app-sub003/internal/feed"
	"github.com/dleads/stakeados.app-sub003/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagSourceName     string
	flagSourceURL      string
	flagSourceCategory string
	flagSourceLanguage string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the RSS sources the CMS ingests",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources registered in the CMS",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}
		sources, err := e.client.ListSources(cmd.Context())
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			e.out.Info("No sources registered.")
			return nil
		}

		tbl := output.NewTable(e.out.Out(), []string{"NAME", "CATEGORY", "ENABLED", "LAST FETCH", "URL"})
		for _, s := range sources {
			last := "never"
			if !s.LastFetchAt.IsZero() {
				last = s.LastFetchAt.Local().Format("2006-01-02 15:04")
			}
			tbl.AddRow(s.Name, s.Category, strconv.FormatBool(s.Enabled), last, s.URL)
		}
		return tbl.Render()
	},
}

var sourcesCheckCmd = &cobra.Command{
	Use:   "check [url]",
	Short: "Fetch feeds and show their latest items",
	Long:  "Checks the given feed URL, or every enabled source from the config file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}

		sources := e.cfg.DomainSources()
		if len(args) == 1 {
			sources = []domain.Source{{URL: args[0]}}
		}
		if len(sources) == 0 {
			e.out.Info("No enabled sources in config.")
			return nil
		}

		e.out.Info("Checking %d source(s)...", len(sources))
		result := feed.CheckAll(cmd.Context(), feed.NewRSSChecker(), sources)
		for _, rep := range result.Reports {
			printReport(e.out, rep)
		}
		for _, err := range result.Errors {
			e.out.Warning("%v", err)
		}
		if len(result.Reports) == 0 {
			return fmt.Errorf("no source could be read")
		}
		return nil
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new source after checking its feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}

		src := domain.Source{
			Name:     flagSourceName,
			URL:      flagSourceURL,
			Category: flagSourceCategory,
			Language: flagSourceLanguage,
			Enabled:  true,
		}
		rep, err := feed.NewRSSChecker().Check(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("feed check failed, source not added: %w", err)
		}
		e.out.Info("Feed %q has %d item(s).", rep.Title, rep.ItemCount)

		created, err := e.client.CreateSource(cmd.Context(), src)
		if err != nil {
			return err
		}
		e.out.Success("added source %s (%s)", created.Name, created.ID)
		return nil
	},
}

func init() {
	sourcesAddCmd.Flags().StringVar(&flagSourceName, "name", "", "display name (required)")
	sourcesAddCmd.Flags().StringVar(&flagSourceURL, "url", "", "RSS or Atom feed URL (required)")
	sourcesAddCmd.Flags().StringVar(&flagSourceCategory, "category", "", "category slug")
	sourcesAddCmd.Flags().StringVar(&flagSourceLanguage, "language", "", "content language, e.g. en")
	_ = sourcesAddCmd.MarkFlagRequired("name")
	_ = sourcesAddCmd.MarkFlagRequired("url")

	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesCheckCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
}

func printReport(out *output.Printer, rep feed.Report) {
	title := rep.Title
	if title == "" {
		title = rep.Source.URL
	}
	out.Header(title)
	newest := "no dated items"
	if !rep.Newest.IsZero() {
		newest = "newest " + rep.Newest.Local().Format("2006-01-02 15:04")
	}
	out.Print("%d item(s), %s", rep.ItemCount, newest)
	for _, it := range rep.Latest {
		out.Print("  • %s", it.Title)
		if it.Excerpt != "" {
			out.Print("    %s", out.Dim(it.Excerpt))
		}
	}
}
