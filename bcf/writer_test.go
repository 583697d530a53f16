package bcf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	homRef = Genotype{Phased(0), Phased(0)}
	het    = Genotype{Unphased(0), Unphased(1)}
)

func TestRecordEncoding(t *testing.T) {
	r := &Record{}
	r.SetRID(0)
	r.SetPos(99)
	require.NoError(t, r.SetAlleles("A", "T"))
	r.SetGenotypes([]Genotype{het, homRef, het})

	var shared, indiv encoder
	r.encodeShared(&shared, 3, 1)
	require.NoError(t, r.encodeGenotypes(&indiv, 1))

	assert.Equal(t, []byte{
		0, 0, 0, 0, // CHROM
		99, 0, 0, 0, // POS
		1, 0, 0, 0, // rlen
		0x01, 0x00, 0x80, 0x7F, // QUAL missing
		0, 0, 2, 0, // n_info, n_allele
		3, 0, 0, 1, // n_sample, n_fmt
		0x07,      // ID missing
		0x17, 'A', // REF
		0x17, 'T', // ALT
		0x00,      // FILTER empty
	}, shared.buf)

	assert.Equal(t, []byte{
		0x11, 1, // GT key
		0x21, // two int8 per sample
		2, 4, 3, 3, 2, 4,
	}, indiv.buf)
}

func TestLongAlleleUsesOverflowLength(t *testing.T) {
	var e encoder
	e.typedString(strings.Repeat("A", 20))

	assert.Equal(t, []byte{0xF7, 0x11, 20}, e.buf[:3])
	assert.Len(t, e.buf, 23)
}

func TestSmallestIntType(t *testing.T) {
	assert.Equal(t, TypeInt8, smallestIntType(0, 127))
	assert.Equal(t, TypeInt16, smallestIntType(0, 128))
	assert.Equal(t, TypeInt16, smallestIntType(-121, 5))
	assert.Equal(t, TypeInt32, smallestIntType(0, 1<<20))
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bcf")
	h := newTestHeader(t, "s1", "s2", "s3")

	w, err := Create(path, h, Options{Threads: 2, Level: CompressionDefault})
	require.NoError(t, err)

	records := []struct {
		rid     int
		pos     int64
		alleles []string
		gts     []Genotype
	}{
		{0, 99, []string{"A", "T"}, []Genotype{het, homRef, het}},
		{1, 49, []string{"G", "C"}, []Genotype{homRef, het, homRef}},
		{1, 1000, []string{strings.Repeat("ACGT", 8), "A"}, []Genotype{homRef, homRef, {Unphased(0), Phased(1)}}},
	}

	r := &Record{}
	for _, rec := range records {
		r.Reset()
		r.SetRID(rec.rid)
		r.SetPos(rec.pos)
		require.NoError(t, r.SetAlleles(rec.alleles...))
		r.SetGenotypes(rec.gts)
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "Close is idempotent")
	assert.Equal(t, 3, w.Written)

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, []string{"s1", "s2", "s3"}, b.Header.Samples())
	assert.EqualValues(t, 3, b.NSamples)
	assert.EqualValues(t, 2, b.NContigs)

	rr := b.NewRecordReader()
	for i, want := range records {
		got := rr.Read()
		require.NoError(t, rr.Error())
		require.NotNil(t, got, "record %d", i)

		assert.Equal(t, want.rid, got.RID)
		assert.Equal(t, want.pos, got.Pos)
		assert.Equal(t, want.alleles, got.Alleles)
		require.Len(t, got.Genotypes, len(want.gts))
		for s := range want.gts {
			assert.True(t, want.gts[s].Equal(got.Genotypes[s]), "record %d sample %d: got %v", i, s, got.Genotypes[s])
		}
	}
	assert.Nil(t, rr.Read())
	assert.NoError(t, rr.Error())
	assert.EqualValues(t, 3, rr.RecordsSeen)
}

func TestWriterRejectsBadRecords(t *testing.T) {
	h := newTestHeader(t, "s1", "s2")
	w, err := NewWriter(&bytes.Buffer{}, h, Options{})
	require.NoError(t, err)
	defer w.Close()

	r := &Record{}
	require.NoError(t, r.SetAlleles("A", "T"))

	r.SetRID(5)
	assert.Error(t, w.Write(r), "undeclared contig")

	r.SetRID(0)
	r.SetGenotypes([]Genotype{homRef})
	assert.Error(t, w.Write(r), "too few genotypes")

	r.SetGenotypes([]Genotype{homRef, {Unphased(0), Unphased(2)}})
	assert.Error(t, w.Write(r), "allele index beyond ALT")

	r.SetGenotypes([]Genotype{homRef, {Unphased(0)}})
	assert.Error(t, w.Write(r), "mixed ploidy")

	assert.Error(t, r.SetAlleles("A", ""), "empty ALT")
	assert.Error(t, h.AddSample("late"), "header is closed once bound")
}

func TestWriterRejectsCompressionLevel(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, newTestHeader(t), Options{Level: 42})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "out.bcf")
	_, err = Create(path, newTestHeader(t), Options{Level: 42})
	assert.Error(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "failed Create leaves no file")
}

func TestOutputIsDeterministic(t *testing.T) {
	write := func() []byte {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, newTestHeader(t, "a", "b"), Options{Threads: 4})
		require.NoError(t, err)
		r := &Record{}
		require.NoError(t, r.SetAlleles("C", "G"))
		r.SetGenotypes([]Genotype{het, homRef})
		require.NoError(t, w.Write(r))
		require.NoError(t, w.Close())
		return buf.Bytes()
	}

	assert.Equal(t, write(), write())
}

func TestParseCompression(t *testing.T) {
	for c := CompressionDefault; c <= CompressionBest; c++ {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("zstd")
	assert.Error(t, err)
}

func TestSetAllelesRejectsSeparators(t *testing.T) {
	var r Record
	for _, alleles := range [][]string{
		{"A", "T,G"},
		{"A T", "G"},
		{"A", "T\tX"},
		{"A\n", "T"},
		{"A", "T\x00"},
		{"A", "Tü"},
	} {
		assert.Error(t, r.SetAlleles(alleles...), "%q", alleles)
	}

	require.NoError(t, r.SetAlleles("AC", "<DEL>"))
	assert.Equal(t, []string{"AC", "<DEL>"}, r.Alleles)
}
