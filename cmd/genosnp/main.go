package main

import (
	"fmt"
	"os"

	"github.com/carbocation/genosnp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configPath  string
	verbose     bool
	metricsFile string

	cfg      *Config
	opener   *genosnp.Opener
	registry = prometheus.NewRegistry()
	metrics  = genosnp.NewMetrics(registry)
	log      = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "genosnp",
	Short: "Find and encode SNPs that define genotype groups",
	Long: `genosnp ingests single-sample VCF files, and writes the variants that
define each genotype as VCF, BED and an indexed SQL table.

Input and output locations are read from a JSON configuration file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}

		c, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
		opener = genosnp.NewOpener(cmd.Context())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if opener != nil {
			if err := opener.Close(); err != nil {
				log.WithError(err).Warnln("Could not close storage clients")
			}
		}
		if metricsFile == "" {
			return nil
		}
		return prometheus.WriteToTextfile(metricsFile, registry)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json", "JSON configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus counters to this file on exit")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(vcfCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("genosnp version", version)
		fmt.Println("SQLite driver:", genosnp.WhichSQLiteDriver())
	},
}
