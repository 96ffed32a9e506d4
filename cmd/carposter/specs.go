package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/pipeline"
	"github.com/use-agent/carposter/report"
)

func newSpecsCmd(cfg *config.Config) *cobra.Command {
	var (
		brand, model string
		asJSON       bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:          "specs -b <make> [-m <model>] [--json]",
		Short:        "Print a vehicle's resolved specifications.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			defer setup(ctx, cfg, verbose)()

			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			spec, err := p.Resolve(ctx, brand, model)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(spec)
			}
			report.WriteTable(cmd.OutOrStdout(), *spec)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&brand, "brand", "b", "", "vehicle make")
	flags.StringVarP(&model, "model", "m", "", "vehicle model")
	flags.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("brand")
	return cmd
}
