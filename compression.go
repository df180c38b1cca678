package genosnp

import "strings"

// Compression indicates how (and whether) a file is compressed
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionGzip
	CompressionBGZF
	CompressionZStandard
)

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionBGZF:
		return "bgzf"
	case CompressionZStandard:
		return "zstd"

	default:
		return "Illegal selection"
	}
}

// CompressionFromPath picks the compression from the file suffix: .gz, .bgz
// and .zst are recognized, anything else is read as plain text.
func CompressionFromPath(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".bgz"):
		return CompressionBGZF
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".zst"):
		return CompressionZStandard
	}
	return CompressionDisabled
}
