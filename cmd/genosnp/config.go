package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InputFiles are the files read by the commands.
type InputFiles struct {
	ReferenceFasta      string `mapstructure:"reference_fasta"`
	RepeatsBedFile      string `mapstructure:"repeats_bed_file"`
	HierarchyFile       string `mapstructure:"hierarchy_file"`
	GenotypeDefinitions string `mapstructure:"genotype_definitions"`
}

type InputDirectories struct {
	VCFDir string `mapstructure:"vcf_dir"`
}

// OutputFiles are relative to OutputDir unless absolute or a bucket URL.
type OutputFiles struct {
	OutputDir           string `mapstructure:"output_dir"`
	SNPsBed             string `mapstructure:"snps_bed"`
	GenotypeSNPsVCF     string `mapstructure:"genotype_snps_vcf"`
	GTAndSpeciesSNPsVCF string `mapstructure:"gt_and_species_snps_vcf"`
	VariantIndex        string `mapstructure:"variant_index"`
}

// Config is the root of the JSON configuration file.
type Config struct {
	InputFiles       InputFiles       `mapstructure:"input_files"`
	InputDirectories InputDirectories `mapstructure:"input_directories"`
	OutputFiles      OutputFiles      `mapstructure:"output_files"`
	SpeciesName      string           `mapstructure:"species_name"`
}

// LoadConfig reads the JSON configuration at path.
func LoadConfig(path string) (*Config, error) {
	path = expandHome(path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s does not exist", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("species_name", "species")
	v.SetDefault("output_files.output_dir", ".")
	v.SetDefault("output_files.genotype_snps_vcf", "genotype_snps.vcf")
	v.SetDefault("output_files.gt_and_species_snps_vcf", "gt_and_species_snps.vcf")
	v.SetDefault("output_files.variant_index", "defining_variants.sqlite")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error loading file %s. It exists, but cannot be processed: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", path, err)
	}

	c.InputFiles.ReferenceFasta = expandHome(c.InputFiles.ReferenceFasta)
	c.InputFiles.RepeatsBedFile = expandHome(c.InputFiles.RepeatsBedFile)
	c.InputFiles.HierarchyFile = expandHome(c.InputFiles.HierarchyFile)
	c.InputFiles.GenotypeDefinitions = expandHome(c.InputFiles.GenotypeDefinitions)
	c.InputDirectories.VCFDir = expandHome(c.InputDirectories.VCFDir)
	c.OutputFiles.OutputDir = expandHome(c.OutputFiles.OutputDir)

	return &c, nil
}

// OutputPath resolves name against the output directory. An empty name
// stays empty.
func (c *Config) OutputPath(name string) string {
	if name == "" || filepath.IsAbs(name) || strings.Contains(name, "://") {
		return name
	}
	if strings.Contains(c.OutputFiles.OutputDir, "://") {
		return strings.TrimSuffix(c.OutputFiles.OutputDir, "/") + "/" + name
	}
	return filepath.Join(c.OutputFiles.OutputDir, name)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
