package cmd

import (
	"context"
	"fmt"

	"github.com/scttfrdmn/labstop/pkg/config"
	"github.com/scttfrdmn/labstop/pkg/i18n"
	"github.com/scttfrdmn/labstop/pkg/observability"
	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the regions a sweep would visit, in order",
	RunE:  runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		return err
	}

	regions := cfg.Regions
	if len(regions) == 0 {
		c, err := newClients(ctx, cfg, observability.DefaultConfig())
		if err != nil {
			return err
		}
		regions, err = c.ec2.GetRegions(ctx)
		if err != nil {
			return err
		}
	}

	if len(regions) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("regions.none"))
		return nil
	}
	for _, region := range regions {
		fmt.Fprintln(cmd.OutOrStdout(), region)
	}
	return nil
}
