package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LoadErrorKind classifies dataset load failures. The HTTP layer surfaces
// the kind only, never the underlying path or parser detail.
type LoadErrorKind string

const (
	LoadFileMissing    LoadErrorKind = "file_missing"
	LoadUnreadable     LoadErrorKind = "unreadable"
	LoadMissingColumns LoadErrorKind = "missing_required_columns"
	LoadNoUsableRows   LoadErrorKind = "zero_usable_rows"
)

// LoadError is the only error kind returned by the loaders.
type LoadError struct {
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load dataset: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("load dataset: %s", e.Kind)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AsLoadError unwraps err into a *LoadError when it is one.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// LoadOptions names the required columns in the source table. Header
// matching trims surrounding whitespace and ignores case.
type LoadOptions struct {
	CodeColumn        string
	DescriptionColumn string
}

// DefaultLoadOptions matches the upstream HSN master sheet layout.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{CodeColumn: "HSNCode", DescriptionColumn: "Description"}
}

func (o LoadOptions) withDefaults() LoadOptions {
	def := DefaultLoadOptions()
	if strings.TrimSpace(o.CodeColumn) == "" {
		o.CodeColumn = def.CodeColumn
	}
	if strings.TrimSpace(o.DescriptionColumn) == "" {
		o.DescriptionColumn = def.DescriptionColumn
	}
	return o
}

// LoadFile parses the dataset at path into a snapshot, dispatching on the
// file extension (.xlsx or .csv).
func LoadFile(path string, opts LoadOptions) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Kind: LoadFileMissing, Err: err}
		}
		return nil, &LoadError{Kind: LoadUnreadable, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path, opts)
	case ".csv":
		return loadCSV(path, opts)
	default:
		return nil, &LoadError{
			Kind: LoadUnreadable,
			Err:  fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path)),
		}
	}
}

// ReloadFromFile builds a snapshot from path and installs it on success.
// The whole parse-and-swap is serialized so two reloads never interleave;
// on failure the previous snapshot stays active and serving. It returns
// the number of records loaded.
func (st *Store) ReloadFromFile(path string, opts LoadOptions) (int, error) {
	st.reloadMu.Lock()
	defer st.reloadMu.Unlock()

	snap, err := LoadFile(path, opts)
	if err != nil {
		return 0, err
	}
	st.install(snap)
	return snap.Len(), nil
}

func loadCSV(path string, opts LoadOptions) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: LoadUnreadable, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Kind: LoadUnreadable, Err: err}
	}

	codeIdx, descIdx, err := resolveColumns(header, opts)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, 1024)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Kind: LoadUnreadable, Err: err}
		}
		if row, ok := rowFromRecord(record, codeIdx, descIdx); ok {
			rows = append(rows, row)
		}
	}
	return snapshotFromRows(rows)
}

// resolveColumns finds the code and description column indexes in a header
// row, tolerating surrounding whitespace and case differences.
func resolveColumns(header []string, opts LoadOptions) (codeIdx, descIdx int, err error) {
	opts = opts.withDefaults()
	codeIdx, descIdx = -1, -1
	for i, col := range header {
		name := strings.TrimSpace(col)
		switch {
		case codeIdx < 0 && strings.EqualFold(name, opts.CodeColumn):
			codeIdx = i
		case descIdx < 0 && strings.EqualFold(name, opts.DescriptionColumn):
			descIdx = i
		}
	}

	missing := make([]string, 0, 2)
	if codeIdx < 0 {
		missing = append(missing, opts.CodeColumn)
	}
	if descIdx < 0 {
		missing = append(missing, opts.DescriptionColumn)
	}
	if len(missing) > 0 {
		return 0, 0, &LoadError{
			Kind: LoadMissingColumns,
			Err:  fmt.Errorf("missing columns: %s", strings.Join(missing, ", ")),
		}
	}
	return codeIdx, descIdx, nil
}

// rowFromRecord coerces one source record into a Row. Records with a
// missing or empty code or description are skipped, not fatal.
func rowFromRecord(record []string, codeIdx, descIdx int) (Row, bool) {
	if codeIdx >= len(record) || descIdx >= len(record) {
		return Row{}, false
	}
	code := strings.TrimSpace(record[codeIdx])
	desc := strings.TrimSpace(record[descIdx])
	if code == "" || desc == "" {
		return Row{}, false
	}
	return Row{Code: code, Description: desc}, true
}

func snapshotFromRows(rows []Row) (*Snapshot, error) {
	if len(rows) == 0 {
		return nil, &LoadError{Kind: LoadNoUsableRows}
	}
	return NewSnapshot(rows, time.Now().UTC()), nil
}
