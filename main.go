package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// Rev holds binary revision string
// Set manually at build time using:
//
//	go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

const configFileName = "mediation"

func main() {
	defer glog.Flush()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "mediation-harness",
		Short:         "Drive the mediation adapters against simulated network SDKs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// glog registers its flags on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", configFileName, "config file name, without extension, looked up in . and /etc/config")

	rootCmd.AddCommand(newServeCommand(&configFile))
	rootCmd.AddCommand(newSimulateCommand(&configFile))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build revision",
		Run: func(cmd *cobra.Command, _ []string) {
			revision := Rev
			if revision == "" {
				revision = "not-set"
			}
			fmt.Fprintln(cmd.OutOrStdout(), revision)
		},
	})
	return rootCmd
}

func newServeCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin endpoints while sending simulated traffic to every network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return fmt.Errorf("configuration could not be loaded or did not pass validation: %w", err)
			}
			return serve(cmd.Context(), Rev, cfg)
		},
	}
	cmd.Flags().Int("port", 0, "admin port, overrides admin.port")
	return cmd
}

func newSimulateCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a fixed number of load and show rounds against every network and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return fmt.Errorf("configuration could not be loaded or did not pass validation: %w", err)
			}
			return simulate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int("rounds", 0, "number of rounds, overrides harness.rounds")
	cmd.Flags().Float64("fill-rate", 0, "probability a simulated request fills, overrides harness.fill_rate")
	return cmd
}
