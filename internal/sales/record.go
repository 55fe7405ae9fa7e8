package sales

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Required sales columns.
const (
	ColumnFSA     = "FSA"
	ColumnTotalEV = "TotalEV"
)

// Record is one region's sales for a quarter. Columns other than FSA and
// TotalEV are kept verbatim in Extra.
type Record struct {
	FSA     string            `json:"fsa"`
	TotalEV float64           `json:"total_ev"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// salesRow is the decoded form of one table line. A blank TotalEV cell decodes
// to nil.
type salesRow struct {
	FSA     string   `csv:"FSA"`
	TotalEV *float64 `csv:"TotalEV"`
}

// ReadFile reads a quarterly sales table from a .csv or .xlsx file.
func ReadFile(path string) ([]Record, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "sales: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		records, err := ReadCSV(f)
		return records, eris.Wrapf(err, "sales: %s", path)
	case ".xlsx":
		records, err := ReadXLSX(path)
		return records, eris.Wrapf(err, "sales: %s", path)
	default:
		return nil, eris.Errorf("sales: unsupported file format %q", ext)
	}
}

// ReadCSV decodes sales records from CSV with a header row.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return decode(cr)
}

// ReadXLSX decodes sales records from the first sheet of a workbook.
func ReadXLSX(path string) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	var (
		rows  [][]string
		width int
	)
	for _, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		blank := true
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if width == 0 {
			width = len(cells)
		}
		rows = append(rows, fitRow(cells, width))
	}
	return decode(&rowReader{rows: rows})
}

func decode(r csvutil.Reader) ([]Record, error) {
	dec, err := csvutil.NewDecoder(r)
	if err == io.EOF {
		return nil, eris.New("empty sales table")
	}
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}

	header := dec.Header()
	if err := requireColumns(header, ColumnFSA, ColumnTotalEV); err != nil {
		return nil, err
	}

	var (
		records []Record
		missing []string
	)
	for {
		var line salesRow
		if err := dec.Decode(&line); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "decode row %d", len(records)+1)
		}

		rec := Record{FSA: strings.TrimSpace(line.FSA)}
		if v := line.TotalEV; v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
			rec.TotalEV = *v
		} else {
			missing = append(missing, rec.FSA)
		}
		if unused := dec.Unused(); len(unused) > 0 {
			raw := dec.Record()
			rec.Extra = make(map[string]string, len(unused))
			for _, i := range unused {
				rec.Extra[header[i]] = raw[i]
			}
		}
		records = append(records, rec)
	}

	if len(missing) > 0 {
		zap.L().Warn("sales: rows without a TotalEV value count as zero",
			zap.Int("rows", len(missing)),
			zap.Strings("fsa", missing),
		)
	}
	return records, nil
}

func requireColumns(header []string, names ...string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, n := range names {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// fitRow pads or truncates a sheet row to the header width; sheets drop
// trailing empty cells.
func fitRow(cells []string, width int) []string {
	if len(cells) >= width {
		return cells[:width]
	}
	out := make([]string, width)
	copy(out, cells)
	return out
}

// rowReader adapts in-memory rows to csvutil.Reader.
type rowReader struct {
	rows [][]string
	next int
}

func (r *rowReader) Read() ([]string, error) {
	if r.next >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.next]
	r.next++
	return row, nil
}
