package genosnp

import (
	"bufio"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// HeaderMarker starts the column header row of a VCF file.
const HeaderMarker = "#CHROM"

// VCFVersion is the file format version written by VCFWriter.
const VCFVersion = "VCFv4.2"

// Column offsets of the fixed VCF fields.
const (
	colChrom = iota
	colPos
	colID
	colRef
	colAlt
	colQual
	colFilter
	colInfo
	colFormat
	colFirstSample
)

// minVCFColumns is the column count of a VCF file with exactly one sample.
const minVCFColumns = colFirstSample + 1

// DetermineVCFType reads r up to and including the column header row and
// reports whether the file holds one sample or several. Lines after the
// header are left unread in r.
func DetermineVCFType(r *bufio.Reader, filename string) (VCFType, error) {
	for {
		line, err := r.ReadString('\n')
		if strings.HasPrefix(line, HeaderMarker) {
			cols := strings.Split(strings.TrimSpace(line), "\t")
			switch {
			case len(cols) == minVCFColumns:
				return VCFTypeSingleSample, nil
			case len(cols) > minVCFColumns:
				return VCFTypeMultiSample, nil
			}
			return VCFTypeUnknown, &FormatError{
				File: filename,
				Msg:  "has fewer than 10 columns which is minimum required",
			}
		}

		if err == io.EOF {
			break
		} else if err != nil {
			return VCFTypeUnknown, pfx.Err(err)
		}

		if !strings.HasPrefix(line, "#") && strings.TrimSpace(line) != "" {
			return VCFTypeUnknown, &FormatError{
				File: filename,
				Msg:  "data row found before header line starting with " + HeaderMarker,
			}
		}
	}

	return VCFTypeUnknown, &FormatError{
		File: filename,
		Msg:  "header line not found, were looking for line starting with " + HeaderMarker,
	}
}
