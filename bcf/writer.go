package bcf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bgzf"
	"github.com/carbocation/pfx"
)

// Magic opens every uncompressed BCF 2.2 stream.
const Magic = "BCF\x02\x02"

// GenotypeFormat is the FORMAT declaration for the GT field. GT is declared
// as a string but stored as packed integers, as htslib does.
var GenotypeFormat = Format{ID: "GT", Number: "1", Type: "String", Description: "Genotype"}

// Options tunes the BGZF layer. Threads is a performance hint only; blocks
// are always emitted in the order records were written.
type Options struct {
	Threads int
	Level   Compression
}

// Writer encodes records into a BGZF-compressed BCF stream.
type Writer struct {
	Path     string
	Header   *Header
	Written  int
	bg       *bgzf.Writer
	file     *os.File
	gtKey    int
	hasGT    bool
	shared   encoder
	indiv    encoder
	lengths  [8]byte
	closed   bool
	closeErr error
}

// Create opens path for writing and binds a writer to it. The header is
// written immediately and closed against further changes. If that fails the
// new file is removed.
func Create(path string, h *Header, opts Options) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	w, err := NewWriter(file, h, opts)
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, pfx.Err(err)
	}
	w.Path = path
	w.file = file

	return w, nil
}

// NewWriter binds a writer to an arbitrary destination. Closing the Writer
// does not close dst.
func NewWriter(dst io.Writer, h *Header, opts Options) (*Writer, error) {
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	level, err := opts.Level.level()
	if err != nil {
		return nil, pfx.Err(err)
	}

	bg, err := bgzf.NewWriterLevel(dst, level, opts.Threads)
	if err != nil {
		return nil, pfx.Err(err)
	}

	h.closed = true
	w := &Writer{
		Header: h,
		bg:     bg,
	}
	w.gtKey, w.hasGT = h.DictionaryID(GenotypeFormat.ID)

	if err := w.writeHeader(); err != nil {
		bg.Close()
		return nil, pfx.Err(err)
	}

	return w, nil
}

func (w *Writer) writeHeader() error {
	text := w.Header.Text()

	buf := make([]byte, 0, len(Magic)+4+len(text)+1)
	buf = append(buf, Magic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(text)+1))
	buf = append(buf, text...)
	buf = append(buf, 0)

	if _, err := w.bg.Write(buf); err != nil {
		return err
	}
	return nil
}

// Write appends one record.
func (w *Writer) Write(r *Record) error {
	if w.closed {
		return pfx.Err(fmt.Errorf("write to closed writer"))
	}
	if r.RID < 0 || r.RID >= len(w.Header.contigs) {
		return pfx.Err(fmt.Errorf("CHROM index %d is not declared in the header (%d contigs)", r.RID, len(w.Header.contigs)))
	}
	if r.Pos < 0 || r.Pos > int64(^uint32(0)>>1) {
		return pfx.Err(fmt.Errorf("position %d is out of range", r.Pos))
	}
	if len(r.Alleles) == 0 {
		return pfx.Err(fmt.Errorf("record at %s:%d has no alleles", w.Header.contigs[r.RID].ID, r.Pos+1))
	}

	nSamples := len(w.Header.samples)
	nFormats := 0
	if r.Genotypes != nil {
		if !w.hasGT {
			return pfx.Err(fmt.Errorf("record carries genotypes but the header declares no %s field", GenotypeFormat.ID))
		}
		if len(r.Genotypes) != nSamples {
			return pfx.Err(fmt.Errorf("record has %d genotypes for %d samples", len(r.Genotypes), nSamples))
		}
		if nSamples > 0 {
			nFormats = 1
		}
	}

	w.shared.reset()
	w.indiv.reset()
	r.encodeShared(&w.shared, nSamples, nFormats)
	if nFormats > 0 {
		if err := r.encodeGenotypes(&w.indiv, w.gtKey); err != nil {
			return pfx.Err(err)
		}
	}

	binary.LittleEndian.PutUint32(w.lengths[:4], uint32(len(w.shared.buf)))
	binary.LittleEndian.PutUint32(w.lengths[4:], uint32(len(w.indiv.buf)))
	for _, block := range [][]byte{w.lengths[:], w.shared.buf, w.indiv.buf} {
		if _, err := w.bg.Write(block); err != nil {
			return pfx.Err(err)
		}
	}
	w.Written++

	return nil
}

// Close flushes the BGZF stream, appends the EOF marker block and closes the
// file if the writer opened it. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return w.closeErr
	}
	w.closed = true

	var errs []error
	if err := w.bg.Close(); err != nil {
		errs = append(errs, err)
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		w.closeErr = pfx.Err(err)
	}

	return w.closeErr
}
