package cmd

import (
	"fmt"
	"os"

	"github.com/scttfrdmn/labstop/pkg/i18n"
	"github.com/spf13/cobra"
)

var outputLang string

var rootCmd = &cobra.Command{
	Use:   "labstop",
	Short: "Stop running lab EC2 instances in every region",
	Long: `labstop - stop forgotten lab/test EC2 instances

labstop scans every enabled region for running instances tagged Type=Lab,
stops them, and publishes a summary to an SNS topic. The same sweep runs on a
schedule as the lab-stopper Lambda function.

Examples:
  # See what would be stopped
  labstop sweep --dry-run

  # Stop and notify
  labstop sweep --topic-arn arn:aws:sns:us-east-1:123456789012:lab-auto-stop

  # Only two regions, different tag
  labstop sweep --region us-east-1 --region eu-west-1 --tag-key Env --tag-value sandbox`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return i18n.Init(i18n.Config{Language: outputLang})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&outputLang, "lang", "", "Output language (en, es; default: $LABSTOP_LANG or locale)")
}
