package main

import (
	"github.com/spf13/cobra"

	"github.com/contactkeval/bs-pricer/internal/quote"
	"github.com/contactkeval/bs-pricer/internal/report"
)

func newPriceCmd(a *app) *cobra.Command {
	var (
		spec     quote.ContractSpec
		maturity float64
		spot     float64
		vol      float64
		rate     float64
		asOf     string
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single option",
		Example: `  bs-pricer price --type call --spot 100 --strike 100 --maturity 1 --rate 0.05 --vol 0.2
  bs-pricer price --underlying SPY --type put --strike 570 --expiry 2025-02-21`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("maturity") {
				spec.TimeToMaturity = &maturity
			}
			if flags.Changed("spot") {
				spec.Spot = &spot
			}
			if flags.Changed("vol") {
				spec.Volatility = &vol
			}
			if flags.Changed("rate") {
				spec.Rate = &rate
			}

			pricingCfg := a.cfg.Pricing
			if asOf != "" {
				pricingCfg.AsOf = asOf
			}

			// market data is only needed when spot or vol is missing
			var engine *quote.Engine
			if spec.Spot != nil && spec.Volatility != nil {
				engine = quote.NewEngine(&pricingCfg, nil)
			} else {
				prov, err := a.provider()
				if err != nil {
					return err
				}
				engine = quote.NewEngine(&pricingCfg, prov)
			}

			q, err := engine.PriceOne(cmd.Context(), spec)
			if err != nil {
				return err
			}
			report.RenderTable(cmd.OutOrStdout(), []quote.Quote{q})
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&spec.Type, "type", "call", "call or put")
	f.StringVar(&spec.Underlying, "underlying", "", "underlying ticker, used for market data lookups")
	f.Float64Var(&spec.Strike, "strike", 0, "strike price")
	f.StringVar(&spec.Expiry, "expiry", "", "expiry date YYYY-MM-DD")
	f.Float64Var(&maturity, "maturity", 0, "time to maturity in years, overrides --expiry")
	f.Float64Var(&spot, "spot", 0, "spot price, defaults to the last close")
	f.Float64Var(&vol, "vol", 0, "annualised volatility, defaults to historical volatility")
	f.Float64Var(&rate, "rate", 0, "risk-free rate, defaults to pricing.risk_free_rate")
	f.StringVar(&asOf, "as-of", "", "valuation date YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("strike")
	return cmd
}
