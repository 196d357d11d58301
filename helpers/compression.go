package helpers

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// Compression is the container format of an input stream.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

var compressionNames = [...]string{"none", "gzip", "bzip2", "xz"}

func (c Compression) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return compressionNames[CompressionNone]
	}
	return compressionNames[c]
}

// signatures lists the leading bytes of each container, checked in order.
var signatures = []struct {
	kind  Compression
	magic string
}{
	{CompressionGzip, "\x1f\x8b"},
	{CompressionBzip2, "BZh"},
	{CompressionXZ, "\xfd7zXZ\x00"},
}

// sniffLen is enough leading bytes to tell every container apart.
const sniffLen = 6

// DetectCompression classifies a stream by its leading bytes.
func DetectCompression(header []byte) Compression {
	for _, sig := range signatures {
		if bytes.HasPrefix(header, []byte(sig.magic)) {
			return sig.kind
		}
	}
	return CompressionNone
}

// Decompress sniffs r and returns a reader over the decoded content.
// Uncompressed input passes through unchanged. The returned closer releases
// decoder state only; the caller still owns r.
func Decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)

	// A short peek means a short stream, which can only be uncompressed.
	header, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, CompressionNone, err
	}

	kind := DetectCompression(header)
	switch kind {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, kind, nil

	case CompressionBzip2:
		return io.NopCloser(bzip2.NewReader(br)), kind, nil

	case CompressionXZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return io.NopCloser(xr), kind, nil
	}

	return io.NopCloser(br), CompressionNone, nil
}
