/*
Package export writes calculated maturity values to an XML document.

PURPOSE:
  Serializes (policy number, maturity value) pairs into the results
  document consumed downstream. Every other derived field is left out of
  the document on purpose.

DOCUMENT FORMAT:
  <?xml version="1.0" encoding="utf-8"?>
  <MaturityDataResults>
    <MaturityData>
      <PolicyNumber>A100001</PolicyNumber>
      <MaturityValue>1275.00</MaturityValue>
    </MaturityData>
  </MaturityDataResults>

  Element names, nesting and two-space indentation are fixed. Elements
  without content are written self-closing (<MaturityDataResults />),
  matching what downstream consumers already parse.

WRITE SEMANTICS:
  The document is written to a temp file next to the destination and
  renamed into place, so a failed export never leaves a partial file.
  The output directory is created if missing.

SEE ALSO:
  - errors.go: ExportError
  - batch/runner.go: Calls Export after ProcessAll
*/
package export

import (
	"bufio"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"

	"github.com/warp/maturity-engine/maturity"
)

// =============================================================================
// DOCUMENT SHAPE
// =============================================================================

const (
	RootElement          = "MaturityDataResults"
	ItemElement          = "MaturityData"
	PolicyNumberElement  = "PolicyNumber"
	MaturityValueElement = "MaturityValue"

	header = `<?xml version="1.0" encoding="utf-8"?>`
	indent = "  "
)

// Document mirrors the results document. It is used to read exported
// files back; writing goes through Encode.
type Document struct {
	XMLName xml.Name `xml:"MaturityDataResults"`
	Items   []Item   `xml:"MaturityData"`
}

// Item is one exported policy.
type Item struct {
	PolicyNumber  string `xml:"PolicyNumber"`
	MaturityValue string `xml:"MaturityValue"`
}

// ItemFromRecord projects a derived record onto its exported fields.
func ItemFromRecord(r maturity.Record) Item {
	return Item{
		PolicyNumber:  r.PolicyNumber,
		MaturityValue: r.MaturityValue.StringFixed(maturity.ValuePlaces),
	}
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode writes the results document for records to w.
func Encode(w io.Writer, records []maturity.Record) error {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}

	e.line(0, header)
	if len(records) == 0 {
		e.empty(0, RootElement)
	} else {
		e.open(0, RootElement)
		for _, r := range records {
			item := ItemFromRecord(r)
			e.open(1, ItemElement)
			e.text(2, PolicyNumberElement, item.PolicyNumber)
			e.text(2, MaturityValueElement, item.MaturityValue)
			e.close(1, ItemElement)
		}
		e.close(0, RootElement)
	}

	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

// Decode reads a results document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *encoder) pad(depth int) {
	for i := 0; i < depth; i++ {
		e.write(indent)
	}
}

func (e *encoder) line(depth int, s string) {
	e.pad(depth)
	e.write(s)
	e.write("\n")
}

func (e *encoder) open(depth int, name string)  { e.line(depth, "<"+name+">") }
func (e *encoder) close(depth int, name string) { e.line(depth, "</"+name+">") }
func (e *encoder) empty(depth int, name string) { e.line(depth, "<"+name+" />") }

func (e *encoder) text(depth int, name, value string) {
	if value == "" {
		e.empty(depth, name)
		return
	}
	e.pad(depth)
	e.write("<" + name + ">")
	if e.err == nil {
		e.err = xml.EscapeText(e.w, []byte(value))
	}
	e.write("</" + name + ">\n")
}

// =============================================================================
// FILE EXPORT
// =============================================================================

// Exporter writes a results document to a destination path.
type Exporter interface {
	Export(records []maturity.Record, path string) error
}

// XMLExporter writes results documents to the local filesystem.
type XMLExporter struct {
	// DirMode is used when the destination directory must be created.
	DirMode os.FileMode
	// FileMode is applied to the written document.
	FileMode os.FileMode
}

// NewXMLExporter returns an exporter with conventional permissions.
func NewXMLExporter() *XMLExporter {
	return &XMLExporter{DirMode: 0o755, FileMode: 0o644}
}

// Export writes the document for records to path. Any failure is returned
// as an *ExportError; a nil error means the file is complete on disk.
func (x *XMLExporter) Export(records []maturity.Record, path string) error {
	if path == "" {
		return &ExportError{Op: "resolve", Path: path, Err: ErrEmptyPath}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, x.dirMode()); err != nil {
		return &ExportError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &ExportError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := Encode(tmp, records); err != nil {
		return &ExportError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &ExportError{Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ExportError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, x.fileMode()); err != nil {
		return &ExportError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &ExportError{Op: "rename", Path: path, Err: err}
	}
	committed = true
	return nil
}

func (x *XMLExporter) dirMode() os.FileMode {
	if x.DirMode == 0 {
		return 0o755
	}
	return x.DirMode
}

func (x *XMLExporter) fileMode() os.FileMode {
	if x.FileMode == 0 {
		return 0o644
	}
	return x.FileMode
}

// Path combines the configured output directory and filename.
func Path(dir, filename string) (string, error) {
	if filename == "" {
		return "", &ExportError{Op: "resolve", Path: dir, Err: ErrEmptyFilename}
	}
	if filepath.Base(filename) != filename {
		return "", &ExportError{Op: "resolve", Path: filename, Err: ErrInvalidFilename}
	}
	return filepath.Join(dir, filename), nil
}
