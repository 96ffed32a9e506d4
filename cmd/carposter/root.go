package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/pipeline"
)

type posterFlags struct {
	brand     string
	model     string
	output    string
	reference string
	verbose   bool
	noPhoto   bool
	sheet     bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var f posterFlags

	cmd := &cobra.Command{
		Use:   "carposter -b <make> [-m <model>]",
		Short: "Render a vehicle specification poster.",
		Long: "carposter resolves a vehicle's specifications from the catalog, falling back to\n" +
			"built-in data when the site is unreachable, finds a photo and renders a poster.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			defer setup(ctx, cfg, f.verbose)()

			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			res, err := p.Run(ctx, pipeline.Request{
				Make:           f.brand,
				Model:          f.model,
				OutputPath:     f.output,
				ReferenceImage: f.reference,
				SkipPhoto:      f.noPhoto,
				WriteSheet:     f.sheet,
			})
			if err != nil {
				slog.Error("poster failed", "make", f.brand, "model", f.model, "error", err)
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)
			if res.SheetPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.SheetPath)
			}
			slog.Info("poster written",
				"path", res.OutputPath,
				"source", res.Source,
				"photo", res.PhotoSource,
				"total_ms", res.Timing.TotalMs,
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.brand, "brand", "b", "", "vehicle make, e.g. Audi")
	flags.StringVarP(&f.model, "model", "m", "", "vehicle model, e.g. \"TT RS\"")
	flags.StringVarP(&f.output, "output", "o", "", "output file (default output/{make}_{model}.png)")
	flags.StringVarP(&f.reference, "reference", "r", "", "reference image for the poster palette")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&f.noPhoto, "no-photo", false, "skip the photo search")
	flags.BoolVar(&f.sheet, "sheet", false, "also write a Markdown spec sheet")
	_ = cmd.MarkFlagRequired("brand")

	cmd.AddCommand(newSpecsCmd(cfg))
	return cmd
}
