package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/output"
	"github.com/dleads/stakeados.app-sub003/internal/processing"
	"github.com/spf13/cobra"
)

var flagJobOptions []string

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List and start AI processing jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processing jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}
		jobs, err := e.client.ListJobs(cmd.Context())
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			e.out.Info("No processing jobs.")
			return nil
		}
		return renderJobs(e.out, jobs)
	},
}

var jobsStartCmd = &cobra.Command{
	Use:   "start <article-id>...",
	Short: "Start processing for one or more articles",
	Long: fmt.Sprintf(`Queue processing for the given articles. Each --option enables one step:
%s. Without --option the processing.default_options from config are used.`,
		strings.Join(processing.AllOptionNames(), ", ")),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(nil)
		if err != nil {
			return err
		}

		var opts processing.Options
		if cmd.Flags().Changed("option") {
			opts, err = processing.ParseOptions(flagJobOptions)
		} else {
			opts, err = e.cfg.ProcessingOptions()
		}
		if err != nil {
			return err
		}

		jobs, err := e.client.StartProcessing(cmd.Context(), processing.StartRequest{ArticleIDs: args, Options: opts})
		if err != nil {
			return err
		}
		e.out.Success("queued %d job(s): %s", len(jobs), strings.Join(opts.Names(), ", "))
		if len(jobs) > 0 {
			return renderJobs(e.out, jobs)
		}
		return nil
	},
}

func init() {
	jobsStartCmd.Flags().StringSliceVarP(&flagJobOptions, "option", "o", nil, "processing step to run (repeatable)")
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStartCmd)
}

func renderJobs(out *output.Printer, jobs []processing.Job) error {
	tbl := output.NewTable(out.Out(), []string{"JOB", "ARTICLE", "STATUS", "PROGRESS", "DURATION", "ERROR"})
	for _, j := range jobs {
		dur := "-"
		if d := j.Duration(); d > 0 {
			dur = d.Round(time.Second).String()
		}
		tbl.AddRow(j.ID, j.ArticleID, j.Status.String(), strconv.Itoa(j.Progress)+"%", dur, truncate(j.Error, 40))
	}
	return tbl.Render()
}
