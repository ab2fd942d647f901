package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/scttfrdmn/labstop/pkg/config"
	"github.com/scttfrdmn/labstop/pkg/i18n"
	"github.com/scttfrdmn/labstop/pkg/observability"
	"github.com/scttfrdmn/labstop/pkg/runner"
	"github.com/spf13/cobra"
)

var (
	sweepRegions     []string
	sweepTagKey      string
	sweepTagValue    string
	sweepTopicArn    string
	sweepDryRun      bool
	sweepJSON        bool
	sweepMetricsFile string
	sweepTrace       string
	sweepQuiet       bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Stop running lab instances and notify",
	Long: `Scan regions for running instances carrying the lab tag, stop them with
one StopInstances call per region, and publish success and failure summaries
to the configured SNS topic.

Configuration precedence: flags, environment (SNS_TOPIC_ARN, LABSTOP_TAG_KEY,
LABSTOP_TAG_VALUE), ~/.labstop/config.yaml, defaults (Type=Lab).`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringArrayVar(&sweepRegions, "region", nil, "Only sweep this region (repeatable, default: all enabled regions)")
	sweepCmd.Flags().StringVar(&sweepTagKey, "tag-key", "", "Tag key selecting lab instances (default: Type)")
	sweepCmd.Flags().StringVar(&sweepTagValue, "tag-value", "", "Tag value selecting lab instances (default: Lab)")
	sweepCmd.Flags().StringVar(&sweepTopicArn, "topic-arn", "", "SNS topic to notify (default: $SNS_TOPIC_ARN)")
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "List matching instances without stopping them")
	sweepCmd.Flags().BoolVar(&sweepJSON, "json", false, "Output the report as JSON")
	sweepCmd.Flags().StringVar(&sweepMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the sweep")
	sweepCmd.Flags().StringVar(&sweepTrace, "trace", "", "Enable tracing with this exporter (stdout, xray)")
	sweepCmd.Flags().BoolVar(&sweepQuiet, "quiet", false, "Suppress progress logs and audit events")
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(config.Overrides{
		TopicArn: sweepTopicArn,
		TagKey:   sweepTagKey,
		TagValue: sweepTagValue,
		Regions:  sweepRegions,
	})
	if err != nil {
		return err
	}

	obs := observability.FromEnv()
	if sweepMetricsFile != "" {
		obs.Metrics.TextfilePath = sweepMetricsFile
	}
	if sweepTrace != "" {
		obs.Tracing.Enabled = true
		obs.Tracing.Exporter = sweepTrace
	}

	c, err := newClients(ctx, cfg, obs)
	if err != nil {
		return err
	}
	defer c.tracer.Shutdown(ctx)

	var progress io.Writer = cmd.ErrOrStderr()
	var auditOut io.Writer = cmd.ErrOrStderr()
	if sweepQuiet {
		progress = io.Discard
		auditOut = io.Discard
	}

	r := &runner.Runner{
		API:      c.ec2,
		SNS:      c.sns,
		Config:   cfg,
		Obs:      obs,
		Tracer:   c.tracer,
		DryRun:   sweepDryRun,
		AuditOut: auditOut,
		Logger:   log.New(progress, "", log.LstdFlags),
	}
	result := r.Run(ctx)

	if sweepJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Report); err != nil {
			return err
		}
	} else {
		printReport(cmd.OutOrStdout(), result)
	}

	if result.RegionsErr != nil {
		return result.RegionsErr
	}
	return nil
}

func printReport(out io.Writer, result *runner.Result) {
	report := result.Report

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		i18n.T("report.header.region"),
		i18n.T("report.header.outcome"),
		i18n.T("report.header.instances"),
		i18n.T("report.header.error"))
	for _, rr := range report.Regions {
		ids := make([]string, 0, len(rr.Instances))
		for _, inst := range rr.Instances {
			ids = append(ids, inst.ID)
		}
		instances := strings.Join(ids, ",")
		if instances == "" {
			instances = "-"
		}
		errText := rr.Error
		if errText == "" {
			errText = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rr.Region, rr.Outcome, instances, errText)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%s", i18n.T("report.summary", map[string]interface{}{
		"Stopped": len(report.Stopped),
		"Failed":  len(report.Failed),
	}))
	if report.DryRun {
		fmt.Fprint(out, i18n.Tc("report.dry_run", len(report.Matched())))
	}
	fmt.Fprintln(out)

	for _, n := range result.Notifications {
		if n.Err != nil {
			fmt.Fprintln(out, i18n.T("notify.failed", map[string]interface{}{
				"Kind":  n.Kind,
				"Error": n.Err,
			}))
			continue
		}
		fmt.Fprintln(out, i18n.T("notify.sent", map[string]interface{}{
			"Kind":      n.Kind,
			"Lines":     n.Lines,
			"MessageID": n.MessageID,
		}))
	}
}
