package main

import (
	"github.com/carbocation/genosnp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	indexDriver string
	indexDSN    string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Store the defining variants in a SQL index",
	Long: `Read the genotype definitions and write one row per genotype and
defining variant to a SQL table. By default the index is a SQLite file at
output_files.variant_index; use --driver and --dsn for another database.

Example:
  genosnp index --driver pgx --dsn postgres://user@localhost/genosnp`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gts, err := loadGenotypes()
		if err != nil {
			return err
		}

		var idx *genosnp.VariantIndex
		if indexDSN != "" {
			idx, err = genosnp.OpenVariantIndexDSN(indexDriver, indexDSN)
		} else {
			idx, err = genosnp.OpenVariantIndex(cfg.OutputPath(cfg.OutputFiles.VariantIndex))
		}
		if err != nil {
			return err
		}
		defer idx.Close()

		if err := idx.Write(gts); err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"genotypes": idx.Metadata.Genotypes,
			"rows":      idx.Metadata.Variants,
			"created":   idx.Metadata.IndexCreationTime.String(),
		}).Infoln("Wrote variant index")
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexDriver, "driver", "pgx", "database/sql driver used with --dsn")
	indexCmd.Flags().StringVar(&indexDSN, "dsn", "", "data source name; overrides output_files.variant_index")
}
