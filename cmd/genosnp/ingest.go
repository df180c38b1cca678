package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carbocation/genosnp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var vcfSuffixes = []string{".vcf", ".vcf.gz", ".vcf.bgz", ".vcf.zst"}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load every VCF in the configured directory",
	Long: `Load every single-sample VCF (.vcf, .vcf.gz, .vcf.bgz, .vcf.zst) in
input_directories.vcf_dir, which may be a local directory or a gs:// or
s3:// prefix. Positions in the repeats BED file are skipped. Prints the
number of variants found per sample.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, reg, err := ingestSamples()
		if err != nil {
			return err
		}

		for _, s := range samples {
			fmt.Printf("%s\t%d\n", s.Name, len(s.Variants()))
		}
		log.WithFields(logrus.Fields{
			"samples":  len(samples),
			"variants": reg.Len(),
		}).Infoln("Ingested VCF files")
		return nil
	},
}

func ingestSamples() ([]*genosnp.Sample, *genosnp.VariantRegistry, error) {
	repeats := genosnp.NewRepeatRegions(opener)
	if _, err := repeats.Load(cfg.InputFiles.RepeatsBedFile); err != nil {
		return nil, nil, err
	}
	log.WithField("positions", repeats.Len()).Debugln("Loaded repeat regions")

	paths, err := vcfFiles(cfg.InputDirectories.VCFDir)
	if err != nil {
		return nil, nil, err
	}

	in := &genosnp.Ingester{
		Repeats: repeats,
		Opener:  opener,
		Log:     log,
		Metrics: metrics,
	}
	reg := genosnp.NewVariantRegistry()
	samples := make([]*genosnp.Sample, 0, len(paths))
	for _, path := range paths {
		s := genosnp.NewSample(sampleName(path), path)
		if err := in.Ingest(path, reg, s); err != nil {
			return nil, nil, err
		}
		log.WithFields(logrus.Fields{"sample": s.Name, "variants": len(s.Variants())}).Debugln("Ingested")
		samples = append(samples, s)
	}

	return samples, reg, nil
}

func vcfFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("input_directories.vcf_dir is not set")
	}
	paths, err := opener.List(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, path := range paths {
		if sampleName(path) != filepath.Base(path) {
			out = append(out, path)
		}
	}
	return out, nil
}

// sampleName strips the directory and a VCF suffix from path. Names without
// a VCF suffix are returned unchanged.
func sampleName(path string) string {
	base := filepath.Base(path)
	for i := len(vcfSuffixes) - 1; i >= 0; i-- {
		if strings.HasSuffix(base, vcfSuffixes[i]) {
			return strings.TrimSuffix(base, vcfSuffixes[i])
		}
	}
	return base
}
