package main

import (
	"bufio"

	"github.com/carbocation/genosnp"
	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var vcfCmd = &cobra.Command{
	Use:   "vcf",
	Short: "Write the defining variants as VCF and BED",
	Long: `Read the genotype definitions and hierarchy, then write the
genotype-oriented and species-oriented VCF files and, if output_files.snps_bed
is set, a BED file of every defining variant. Outputs ending in .gz are
compressed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gts, err := loadGenotypes()
		if err != nil {
			return err
		}

		vw := &genosnp.VCFWriter{Opener: opener, Log: log, Metrics: metrics}

		gtPath := cfg.OutputPath(cfg.OutputFiles.GenotypeSNPsVCF)
		if err := vw.WriteGenotypeVCFFile(gts, gtPath); err != nil {
			return err
		}
		spPath := cfg.OutputPath(cfg.OutputFiles.GTAndSpeciesSNPsVCF)
		if err := vw.WriteSpeciesVCFFile(gts, spPath); err != nil {
			return err
		}

		if bedPath := cfg.OutputPath(cfg.OutputFiles.SNPsBed); bedPath != "" {
			if err := writeBED(gts, bedPath); err != nil {
				return err
			}
		}

		log.WithFields(logrus.Fields{
			"genotypes":   gts.Len(),
			"coordinates": len(gts.Coordinates()),
		}).Infoln("Wrote", gtPath, "and", spPath)
		return nil
	},
}

func loadGenotypes() (*genosnp.Genotypes, error) {
	f, err := opener.Open(cfg.InputFiles.GenotypeDefinitions)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gts, err := genosnp.ReadGenotypeDefinitions(f, genosnp.NewVariantRegistry(), cfg.SpeciesName)
	if err != nil {
		return nil, err
	}

	if cfg.InputFiles.HierarchyFile == "" {
		return gts, nil
	}
	h, err := opener.Open(cfg.InputFiles.HierarchyFile)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	if err := genosnp.ReadHierarchy(h, gts); err != nil {
		return nil, err
	}
	return gts, nil
}

func writeBED(gts *genosnp.Genotypes, path string) error {
	f, err := opener.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	for _, v := range gts.AllVariantsSorted() {
		if err := v.WriteBED(bw, cfg.SpeciesName); err != nil {
			f.Abort()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		f.Abort()
		return pfx.Err(err)
	}
	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}
	return nil
}
