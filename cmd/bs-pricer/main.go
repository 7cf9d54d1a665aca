// Command bs-pricer prices European options with the Black-Scholes model,
// either one contract from flags, a configured batch, or over HTTP.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/contactkeval/bs-pricer/internal/config"
	"github.com/contactkeval/bs-pricer/internal/data"
	"github.com/contactkeval/bs-pricer/internal/logger"
)

type app struct {
	configPath string
	envFile    string
	verbosity  int

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bs-pricer",
		Short:         "Black-Scholes option pricer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to YAML or JSON config")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with API keys")
	root.PersistentFlags().IntVarP(&a.verbosity, "verbosity", "v", 1, "0=errors, 1=info, 2=debug, 3=trace")

	root.AddCommand(newPriceCmd(a), newQuoteCmd(a), newServeCmd(a), newHVCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadEnv(a.envFile); err != nil {
		return err
	}

	if a.configPath == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if cmd.Flags().Changed("verbosity") {
		a.cfg.Log.Verbosity = a.verbosity
	}
	return logger.Init(a.cfg.Log)
}

func (a *app) provider() (data.Provider, error) {
	prov, err := data.NewProvider(a.cfg.Data)
	if err != nil {
		return nil, err
	}
	logger.Infof("%s provider enabled", prov.Name())
	return prov, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
