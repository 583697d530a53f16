package bcf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// FileFormat is the VCF version declared in every header this package writes.
const FileFormat = "VCFv4.2"

// Contig is a reference sequence declared in the header. Its position in
// Header.Contigs is the record-level CHROM index.
type Contig struct {
	ID     string
	Length int64
}

// Format describes a per-sample FORMAT field.
type Format struct {
	ID          string
	Number      string
	Type        string
	Description string
}

// Header holds the meta-information lines, sample columns and dictionaries of
// a BCF file. Once a Writer has been bound to it the header is closed and
// further additions fail.
type Header struct {
	lines   []string
	samples []string
	contigs []Contig
	formats []Format

	contigIndex map[string]int
	// dictionary maps FILTER/INFO/FORMAT IDs to their string-dictionary offset.
	dictionary map[string]int
	dictOrder  []string

	closed bool
}

// NewHeader returns an empty header carrying the file format line and the
// implicit PASS filter, which always occupies dictionary offset 0.
func NewHeader() *Header {
	h := &Header{
		contigIndex: make(map[string]int),
		dictionary:  make(map[string]int),
	}
	h.lines = append(h.lines, "##fileformat="+FileFormat)
	h.lines = append(h.lines, `##FILTER=<ID=PASS,Description="All filters passed">`)
	h.addToDictionary("PASS")
	return h
}

func (h *Header) addToDictionary(id string) {
	if _, exists := h.dictionary[id]; exists {
		return
	}
	h.dictionary[id] = len(h.dictOrder)
	h.dictOrder = append(h.dictOrder, id)
}

func (h *Header) checkOpen() error {
	if h.closed {
		return fmt.Errorf("header is closed; it is already bound to a writer")
	}
	return nil
}

// AddSample appends a sample column. Repeated names are kept as separate
// columns.
func (h *Header) AddSample(name string) error {
	if err := h.checkOpen(); err != nil {
		return pfx.Err(err)
	}
	if strings.ContainsAny(name, "\t\n") {
		return pfx.Err(fmt.Errorf("sample name %q contains a tab or newline", name))
	}
	h.samples = append(h.samples, name)
	return nil
}

// AddContig declares a reference sequence. Contig IDs must be unique.
func (h *Header) AddContig(id string, length int64) error {
	if err := h.checkOpen(); err != nil {
		return pfx.Err(err)
	}
	if id == "" || strings.ContainsAny(id, ",<>= \t\n") {
		return pfx.Err(fmt.Errorf("invalid contig ID %q", id))
	}
	if length < 1 {
		return pfx.Err(fmt.Errorf("contig %s has non-positive length %d", id, length))
	}
	if _, exists := h.contigIndex[id]; exists {
		return pfx.Err(fmt.Errorf("contig %s declared twice", id))
	}
	h.contigIndex[id] = len(h.contigs)
	h.contigs = append(h.contigs, Contig{ID: id, Length: length})
	h.lines = append(h.lines, fmt.Sprintf("##contig=<ID=%s,length=%d>", id, length))
	return nil
}

// AddFormat declares a per-sample FORMAT field.
func (h *Header) AddFormat(f Format) error {
	if err := h.checkOpen(); err != nil {
		return pfx.Err(err)
	}
	if f.ID == "" {
		return pfx.Err(fmt.Errorf("FORMAT declaration has no ID"))
	}
	for _, existing := range h.formats {
		if existing.ID == f.ID {
			return pfx.Err(fmt.Errorf("FORMAT %s declared twice", f.ID))
		}
	}
	h.formats = append(h.formats, f)
	h.addToDictionary(f.ID)
	h.lines = append(h.lines, fmt.Sprintf("##FORMAT=<ID=%s,Number=%s,Type=%s,Description=%s>",
		f.ID, f.Number, f.Type, strconv.Quote(f.Description)))
	return nil
}

// ContigID resolves a contig name to its CHROM index.
func (h *Header) ContigID(name string) (int, bool) {
	rid, ok := h.contigIndex[name]
	return rid, ok
}

// DictionaryID resolves a FILTER/INFO/FORMAT ID to its dictionary offset.
func (h *Header) DictionaryID(id string) (int, bool) {
	idx, ok := h.dictionary[id]
	return idx, ok
}

func (h *Header) Samples() []string { return h.samples }

func (h *Header) Contigs() []Contig { return h.contigs }

func (h *Header) Formats() []Format { return h.formats }

// Text renders the VCF header text, ending with the #CHROM line.
func (h *Header) Text() string {
	var sb strings.Builder
	for _, line := range h.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")
	if len(h.samples) > 0 {
		sb.WriteString("\tFORMAT")
		for _, s := range h.samples {
			sb.WriteByte('\t')
			sb.WriteString(s)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// parseHeader rebuilds a closed Header from VCF header text.
func parseHeader(text string) (*Header, error) {
	h := &Header{
		contigIndex: make(map[string]int),
		dictionary:  make(map[string]int),
	}
	h.addToDictionary("PASS")

	sawColumns := false
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "##contig="):
			fields := structuredFields(line[len("##contig="):])
			length, err := strconv.ParseInt(fields["length"], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("contig line %q has invalid length: %w", line, err)
			}
			h.contigIndex[fields["ID"]] = len(h.contigs)
			h.contigs = append(h.contigs, Contig{ID: fields["ID"], Length: length})
		case strings.HasPrefix(line, "##FORMAT="):
			fields := structuredFields(line[len("##FORMAT="):])
			h.formats = append(h.formats, Format{
				ID:          fields["ID"],
				Number:      fields["Number"],
				Type:        fields["Type"],
				Description: fields["Description"],
			})
			h.addToDictionary(fields["ID"])
		case strings.HasPrefix(line, "##FILTER="), strings.HasPrefix(line, "##INFO="):
			fields := structuredFields(line[strings.IndexByte(line, '=')+1:])
			h.addToDictionary(fields["ID"])
		case strings.HasPrefix(line, "#CHROM"):
			sawColumns = true
			columns := strings.Split(line, "\t")
			if len(columns) > 9 {
				h.samples = append(h.samples, columns[9:]...)
			}
			continue
		}
		h.lines = append(h.lines, line)
	}
	if !sawColumns {
		return nil, fmt.Errorf("header has no #CHROM line")
	}
	h.closed = true
	return h, nil
}

// structuredFields splits the body of a <key=value,...> meta line.
// Quoted values may contain commas.
func structuredFields(body string) map[string]string {
	body = strings.TrimSuffix(strings.TrimPrefix(body, "<"), ">")
	out := make(map[string]string)
	for len(body) > 0 {
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			break
		}
		key := body[:eq]
		body = body[eq+1:]
		var value string
		if strings.HasPrefix(body, `"`) {
			end := 1
			for end < len(body) && body[end] != '"' {
				if body[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(body) {
				end = len(body) - 1
			}
			if unquoted, err := strconv.Unquote(body[:end+1]); err == nil {
				value = unquoted
			} else {
				value = body[1:end]
			}
			body = body[end+1:]
		} else {
			comma := strings.IndexByte(body, ',')
			if comma < 0 {
				comma = len(body)
			}
			value = body[:comma]
			body = body[comma:]
		}
		out[key] = value
		body = strings.TrimPrefix(body, ",")
	}
	return out
}
