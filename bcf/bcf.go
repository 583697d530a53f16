// Package bcf reads and writes the subset of BCF 2.2 needed to store
// biallelic sites with a GT field for every sample.
package bcf

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bgzf"
	"github.com/carbocation/pfx"
)

// BCF is an opened BCF file positioned at its first record.
type BCF struct {
	FilePath string
	File     *os.File
	Header   *Header
	NSamples uint32
	NContigs uint32

	bg *bgzf.Reader
}

// Open attempts to read a BCF file located at path. If successful, this
// returns a BCF whose header has been parsed. Otherwise, it returns an error.
func Open(path string) (*BCF, error) {
	b := &BCF{
		FilePath: path,
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	b.File = file

	b.bg, err = bgzf.NewReader(file, 1)
	if err != nil {
		file.Close()
		return nil, pfx.Err(err)
	}

	if err := populateBCFHeader(b); err != nil {
		b.Close()
		return nil, pfx.Err(err)
	}

	return b, nil
}

func populateBCFHeader(b *BCF) error {
	buffer := make([]byte, len(Magic))

	if _, err := io.ReadFull(b.bg, buffer); err != nil {
		return pfx.Err(err)
	}
	if Magic != string(buffer) {
		return pfx.Err(fmt.Errorf("The BCF stream is expected to begin with the magic %q, but instead began with %v", Magic, buffer))
	}

	headerLength, err := readUint32(b.bg, buffer)
	if err != nil {
		return pfx.Err(err)
	}
	if headerLength == 0 {
		return pfx.Err(fmt.Errorf("header length is zero"))
	}

	text := make([]byte, headerLength)
	if _, err := io.ReadFull(b.bg, text); err != nil {
		return pfx.Err(err)
	}
	// l_text counts the terminating NUL.
	if text[len(text)-1] == 0 {
		text = text[:len(text)-1]
	}

	h, err := parseHeader(string(text))
	if err != nil {
		return pfx.Err(err)
	}
	b.Header = h
	b.NSamples = uint32(len(h.samples))
	b.NContigs = uint32(len(h.contigs))

	return nil
}

// Close releases the underlying file.
func (b *BCF) Close() error {
	var bgErr error
	if b.bg != nil {
		bgErr = b.bg.Close()
	}
	if err := b.File.Close(); err != nil {
		return pfx.Err(err)
	}
	if bgErr != nil {
		return pfx.Err(bgErr)
	}
	return nil
}
