package bcf

import (
	"compress/gzip"
	"fmt"
)

// Compression selects the deflate level applied to each BGZF block.
type Compression uint8

const (
	CompressionDefault Compression = iota
	CompressionDisabled
	CompressionFastest
	CompressionBest
)

func (c Compression) String() string {
	switch c {
	case CompressionDefault:
		return "default"
	case CompressionDisabled:
		return "none"
	case CompressionFastest:
		return "fastest"
	case CompressionBest:
		return "best"

	default:
		return "Illegal selection"
	}
}

// ParseCompression maps the String form back to a Compression.
func ParseCompression(s string) (Compression, error) {
	for c := CompressionDefault; c <= CompressionBest; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

func (c Compression) level() (int, error) {
	switch c {
	case CompressionDefault:
		return gzip.DefaultCompression, nil
	case CompressionDisabled:
		return gzip.NoCompression, nil
	case CompressionFastest:
		return gzip.BestSpeed, nil
	case CompressionBest:
		return gzip.BestCompression, nil
	}
	return 0, fmt.Errorf("compression %d is out of range", c)
}
