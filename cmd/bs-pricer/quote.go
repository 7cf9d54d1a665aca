package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/contactkeval/bs-pricer/internal/logger"
	"github.com/contactkeval/bs-pricer/internal/quote"
	"github.com/contactkeval/bs-pricer/internal/report"
)

func newQuoteCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price every contract in the config and write reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.ReportDir
			}
			prov, err := a.provider()
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := quote.NewEngine(&a.cfg.Pricing, prov).Run(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "quote run failed")
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return errors.Wrapf(err, "could not create output dir %s", outDir)
			}
			if err := report.WriteJSON(res, outDir); err != nil {
				return err
			}
			if err := report.WriteCSV(res.Quotes, outDir); err != nil {
				return err
			}
			report.RenderTable(cmd.OutOrStdout(), res.Quotes)

			logger.Infof("finished in %v, wrote %d quotes to %s", time.Since(start), len(res.Quotes), outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "report directory, defaults to report_dir")
	return cmd
}
