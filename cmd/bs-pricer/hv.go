package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/contactkeval/bs-pricer/internal/data"
	"github.com/contactkeval/bs-pricer/internal/pricing"
)

func newHVCmd(a *app) *cobra.Command {
	var (
		days int
		asOf string
	)

	cmd := &cobra.Command{
		Use:   "hv UNDERLYING",
		Short: "Print the annualised historical volatility of an underlying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			underlying := strings.ToUpper(args[0])

			to := time.Now().UTC()
			if asOf != "" {
				t, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return errors.Wrapf(err, "as-of %q", asOf)
				}
				to = t
			}
			from := to.AddDate(0, 0, -days)

			prov, err := a.provider()
			if err != nil {
				return err
			}
			bars, err := prov.GetDailyBars(cmd.Context(), underlying, from, to)
			if err != nil {
				return err
			}
			hv, err := pricing.HistoricalVolatility(data.Closes(bars), pricing.TradingDaysPerYear)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d bars %s..%s hist vol %.2f%%\n",
				underlying, len(bars), bars[0].Date.Format("2006-01-02"), bars[len(bars)-1].Date.Format("2006-01-02"), hv*100)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "lookback window in calendar days")
	cmd.Flags().StringVar(&asOf, "as-of", "", "end date YYYY-MM-DD, defaults to today")
	return cmd
}
