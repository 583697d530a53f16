package bcf

import (
	"fmt"
	"io"

	"github.com/carbocation/pfx"
)

// RecordReader iterates over the records of a BCF file in file order.
type RecordReader struct {
	RecordsSeen uint32
	b           *BCF
	err         error

	// Cached values
	lengths []byte
	block   []byte
}

func (b *BCF) NewRecordReader() *RecordReader {
	return &RecordReader{
		b:       b,
		lengths: make([]byte, 8),
	}
}

func (rr *RecordReader) Error() error {
	return rr.err
}

// Read returns the next record, or nil at the end of the file or after an
// error. Check Error to tell the two apart.
func (rr *RecordReader) Read() *Record {
	if rr.err != nil {
		return nil
	}

	r, err := rr.readRecord()
	if err != nil {
		if err != io.EOF {
			rr.err = pfx.Err(err)
		}
		return nil
	}

	rr.RecordsSeen++

	return r
}

func (rr *RecordReader) readRecord() (*Record, error) {
	sharedLength, err := readUint32(rr.b.bg, rr.lengths)
	if err != nil {
		// A clean end of stream can only happen between records.
		return nil, err
	}
	indivLength, err := readUint32(rr.b.bg, rr.lengths[4:])
	if err != nil {
		return nil, unexpected(err)
	}

	total := int(sharedLength) + int(indivLength)
	if cap(rr.block) < total {
		rr.block = make([]byte, total)
	}
	rr.block = rr.block[:total]
	if _, err := io.ReadFull(rr.b.bg, rr.block); err != nil {
		return nil, unexpected(err)
	}

	r := &Record{}
	nFormats, nSamples, err := rr.parseShared(r, &decoder{buf: rr.block[:sharedLength]})
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", rr.RecordsSeen, err)
	}
	if nSamples != int(rr.b.NSamples) {
		return nil, fmt.Errorf("record %d has %d samples; header declares %d", rr.RecordsSeen, nSamples, rr.b.NSamples)
	}
	if err := rr.parseIndiv(r, &decoder{buf: rr.block[sharedLength:]}, nFormats, nSamples); err != nil {
		return nil, fmt.Errorf("record %d: %w", rr.RecordsSeen, err)
	}

	return r, nil
}

func (rr *RecordReader) parseShared(r *Record, d *decoder) (nFormats, nSamples int, err error) {
	var rid, pos int32
	if rid, err = d.int32(); err != nil {
		return
	}
	r.RID = int(rid)
	if pos, err = d.int32(); err != nil {
		return
	}
	r.Pos = int64(pos)

	// rlen and QUAL are not modelled.
	if err = d.skip(2, TypeInt32); err != nil {
		return
	}

	alleleInfo, err := d.uint32()
	if err != nil {
		return
	}
	fmtSample, err := d.uint32()
	if err != nil {
		return
	}
	nInfo, nAlleles := int(alleleInfo&0xFFFF), int(alleleInfo>>16)
	nFormats, nSamples = int(fmtSample>>24), int(fmtSample&0xFFFFFF)

	if r.ID, err = d.typedString(); err != nil {
		return
	}
	for i := 0; i < nAlleles; i++ {
		var a string
		if a, err = d.typedString(); err != nil {
			return
		}
		r.Alleles = append(r.Alleles, a)
	}

	n, t, err := d.descriptor()
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		var v int64
		if v, err = d.intValue(t); err != nil {
			return
		}
		r.Filter = append(r.Filter, int(v))
	}

	for i := 0; i < nInfo; i++ {
		if _, err = d.typedInt(); err != nil {
			return
		}
		if n, t, err = d.descriptor(); err != nil {
			return
		}
		if err = d.skip(n, t); err != nil {
			return
		}
	}

	return nFormats, nSamples, nil
}

func (rr *RecordReader) parseIndiv(r *Record, d *decoder, nFormats, nSamples int) error {
	gtKey, hasGT := rr.b.Header.DictionaryID(GenotypeFormat.ID)

	for f := 0; f < nFormats; f++ {
		key, err := d.typedInt()
		if err != nil {
			return err
		}
		n, t, err := d.descriptor()
		if err != nil {
			return err
		}

		if !hasGT || int(key) != gtKey {
			if err := d.skip(n*nSamples, t); err != nil {
				return err
			}
			continue
		}

		r.Genotypes = make([]Genotype, nSamples)
		alleles := make([]GenotypeAllele, n*nSamples)
		for s := 0; s < nSamples; s++ {
			g := alleles[s*n : (s+1)*n : (s+1)*n]
			for i := range g {
				v, err := d.intValue(t)
				if err != nil {
					return err
				}
				g[i] = decodeAllele(v)
			}
			r.Genotypes[s] = g
		}
	}

	return nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
