package parquet2bcf

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// The sidecar index mirrors the layout of a BGEN .bgi file: a Variant table
// with one row per record and a single-row Metadata table describing the
// file it indexes.
const indexSchema = `
CREATE TABLE Variant (
	record_index INTEGER PRIMARY KEY,
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	number_of_alleles INTEGER NOT NULL,
	allele1 TEXT NOT NULL,
	allele2 TEXT NOT NULL,
	n_carriers INTEGER NOT NULL
);
CREATE INDEX Variant_chromosome_position ON Variant (chromosome, position);
CREATE TABLE Metadata (
	filename TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	last_write_time INTEGER NOT NULL,
	first_1000_bytes BLOB NOT NULL,
	index_creation_time INTEGER NOT NULL
);
`

// VariantIndex conforms to the rows of the Variant table and can be parsed
// with sqlx.
type VariantIndex struct {
	RecordIndex int    `db:"record_index"`
	Chromosome  string `db:"chromosome"`
	Position    uint32 `db:"position"` // 1-based
	NAlleles    uint16 `db:"number_of_alleles"`
	Allele1     string `db:"allele1"`
	Allele2     string `db:"allele2"`
	NCarriers   int    `db:"n_carriers"` // genotype columns set to the carrier call
}

// IndexMetadata conforms to the single row of the Metadata table.
type IndexMetadata struct {
	Filename           string `db:"filename"`
	FileSize           uint   `db:"file_size"`
	LastWriteTime      Time   `db:"last_write_time"`
	FirstThousandBytes []byte `db:"first_1000_bytes"`
	IndexCreationTime  Time   `db:"index_creation_time"`
}

// Index is an opened sidecar index.
type Index struct {
	DB       *sqlx.DB
	Metadata *IndexMetadata
}

func (idx *Index) Close() error {
	return idx.DB.Close()
}

// OpenIndex opens an existing sidecar index.
func OpenIndex(path string) (*Index, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	idx := &Index{
		DB:       db,
		Metadata: &IndexMetadata{},
	}

	// An index abandoned mid-run has no metadata; ignore any error
	_ = idx.DB.Get(idx.Metadata, "SELECT * FROM Metadata LIMIT 1")

	return idx, nil
}

// Variants returns every indexed variant in record order.
func (idx *Index) Variants() ([]VariantIndex, error) {
	var out []VariantIndex
	if err := idx.DB.Select(&out, "SELECT * FROM Variant ORDER BY record_index ASC"); err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}

// IndexWriter fills a new sidecar index inside one transaction.
type IndexWriter struct {
	Path string
	db   *sqlx.DB
	tx   *sqlx.Tx
	stmt *sqlx.Stmt
	n    int
	done bool
}

// CreateIndex replaces any file at path with an empty index.
func CreateIndex(path string) (*IndexWriter, error) {
	path = ExpandHome(path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, newError(ErrIO, componentIndex, pfx.Err(err))
	}

	db, err := openSQLite(path)
	if err != nil {
		return nil, newError(ErrIO, componentIndex, pfx.Err(err))
	}
	iw := &IndexWriter{Path: path, db: db}

	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, newError(ErrIO, componentIndex, pfx.Err(err))
	}

	if iw.tx, err = db.Beginx(); err != nil {
		db.Close()
		return nil, newError(ErrIO, componentIndex, pfx.Err(err))
	}
	iw.stmt, err = iw.tx.Preparex(`INSERT INTO Variant
		(record_index, chromosome, position, number_of_alleles, allele1, allele2, n_carriers)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		iw.tx.Rollback()
		db.Close()
		return nil, newError(ErrIO, componentIndex, pfx.Err(err))
	}

	return iw, nil
}

// Add records the next written variant. nCarriers counts genotype columns,
// so an identifier repeated in the sample list counts once per column.
func (iw *IndexWriter) Add(k VariantKey, nCarriers int) error {
	_, err := iw.stmt.Exec(iw.n, k.Chrom, k.Pos, 2, k.Ref, k.Alt, nCarriers)
	if err != nil {
		return newVariantError(ErrIO, componentIndex, k, pfx.Err(err))
	}
	iw.n++
	return nil
}

// Finish commits the variants and records metadata about the finished BCF at
// bcfPath. The writer is closed afterwards. If any step fails the index file
// is removed.
func (iw *IndexWriter) Finish(bcfPath string) error {
	if err := iw.commit(bcfPath); err != nil {
		iw.Abort()
		return err
	}

	iw.done = true
	if err := iw.db.Close(); err != nil {
		return newError(ErrIO, componentIndex, pfx.Err(err))
	}
	return nil
}

func (iw *IndexWriter) commit(bcfPath string) error {
	meta, err := describeFile(bcfPath)
	if err != nil {
		return newError(ErrIO, componentIndex, err)
	}

	if err := iw.stmt.Close(); err != nil {
		return newError(ErrIO, componentIndex, pfx.Err(err))
	}
	if _, err := iw.tx.NamedExec(`INSERT INTO Metadata
		(filename, file_size, last_write_time, first_1000_bytes, index_creation_time)
		VALUES (:filename, :file_size, :last_write_time, :first_1000_bytes, :index_creation_time)`, meta); err != nil {
		return newError(ErrIO, componentIndex, pfx.Err(err))
	}
	if err := iw.tx.Commit(); err != nil {
		return newError(ErrIO, componentIndex, pfx.Err(err))
	}

	return nil
}

// Abort discards an unfinished index. It does nothing after a successful
// Finish.
func (iw *IndexWriter) Abort() error {
	if iw.done {
		return nil
	}
	iw.done = true
	iw.stmt.Close()
	iw.tx.Rollback()
	iw.db.Close()
	if err := os.Remove(iw.Path); err != nil && !os.IsNotExist(err) {
		return pfx.Err(err)
	}
	return nil
}

func describeFile(path string) (*IndexMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, pfx.Err(err)
	}

	head := make([]byte, 1000)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, pfx.Err(err)
	}

	return &IndexMetadata{
		Filename:           info.Name(),
		FileSize:           uint(info.Size()),
		LastWriteTime:      Time(info.ModTime()),
		FirstThousandBytes: head[:n],
		IndexCreationTime:  Time(time.Now()),
	}, nil
}

// sqliteURI prefixes path with file: as URI filenames require; see
// https://www.sqlite.org/c3ref/open.html
func sqliteURI(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path
}

func (m *IndexMetadata) String() string {
	return fmt.Sprintf("%s (%d bytes, written %s)", m.Filename, m.FileSize, time.Time(m.LastWriteTime).Format(time.RFC3339))
}
