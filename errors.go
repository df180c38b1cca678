package genosnp

import "fmt"

// FormatError reports a malformed VCF: a missing or short header, a short
// data row, or a FORMAT field without GT. Coordinate is empty when the problem
// is not tied to a row.
type FormatError struct {
	File       string
	Coordinate string
	Msg        string
}

func (e *FormatError) Error() string {
	if e.Coordinate == "" {
		return fmt.Sprintf("VCF file %s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("VCF file %s at %s: %s", e.File, e.Coordinate, e.Msg)
}

// UnsupportedInputError is returned for VCF files this package will not
// ingest, currently anything other than single-sample files.
type UnsupportedInputError struct {
	File string
	Type VCFType
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("VCF file %s: the vcf type %s is not currently supported", e.File, e.Type)
}

// MissingEntityError is returned when a genotype is asked about a variant it
// does not define. It signals inconsistent inputs, not a user error.
type MissingEntityError struct {
	Genotype   string
	Coordinate Coordinate
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("variant at %s is not present among variants of genotype %s", e.Coordinate, e.Genotype)
}
