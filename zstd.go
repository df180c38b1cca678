package genosnp

import (
	"io"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/zstd"
)

// newZStandardReader streams Zstd compressed data. Closing the returned reader
// releases the decoder but not r.
func newZStandardReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return dec.IOReadCloser(), nil
}

func newZStandardWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return enc, nil
}
