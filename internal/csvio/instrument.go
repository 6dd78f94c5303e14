package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// InstrumentFormat names the columns of an instrument-dialect file.
// Only these four columns are consumed; everything else rides along
// untouched and is preserved on re-export.
type InstrumentFormat struct {
	IDColumn    string `toml:"id_column"`
	XColumn     string `toml:"x_column"`
	YColumn     string `toml:"y_column"`
	LabelColumn string `toml:"label_column"`
	// RefLabel is the LabelColumn value flagging a reference mark row.
	RefLabel string `toml:"ref_label"`
}

// DefaultInstrumentFormat returns the column names the SEM mineral
// classification software emits.
func DefaultInstrumentFormat() InstrumentFormat {
	return InstrumentFormat{
		IDColumn:    "Particle ID",
		XColumn:     "Laser Ablation Centre X",
		YColumn:     "Laser Ablation Centre Y",
		LabelColumn: "Mineral Classification",
		RefLabel:    "Fiducial",
	}
}

// InstrumentRow is one parsed row of an instrument file. Record holds the
// original cells so untouched columns survive a recoordinate-and-export
// round trip.
type InstrumentRow struct {
	Record []string
	ID     int
	X, Y   float64
	Ref    bool
}

// InstrumentFile is a parsed instrument-dialect file.
type InstrumentFile struct {
	Headers []string
	Rows    []InstrumentRow

	xIndex, yIndex int
}

// SetCoords overwrites the coordinates of row i, keeping the raw record
// cells in sync for export.
func (f *InstrumentFile) SetCoords(i int, x, y float64) {
	f.Rows[i].X = x
	f.Rows[i].Y = y
	f.Rows[i].Record[f.xIndex] = strconv.FormatFloat(x, 'g', -1, 64)
	f.Rows[i].Record[f.yIndex] = strconv.FormatFloat(y, 'g', -1, 64)
}

// ReferenceRows returns the rows flagged as reference marks, in file order.
func (f *InstrumentFile) ReferenceRows() []InstrumentRow {
	var refs []InstrumentRow
	for _, r := range f.Rows {
		if r.Ref {
			refs = append(refs, r)
		}
	}
	return refs
}

// TargetRows returns the ordinary (non-reference) rows, in file order.
func (f *InstrumentFile) TargetRows() []InstrumentRow {
	var targets []InstrumentRow
	for _, r := range f.Rows {
		if !r.Ref {
			targets = append(targets, r)
		}
	}
	return targets
}

// InvertX flips every x coordinate about the given image width. The
// instrument frame originates at the top-right of the image, the native
// frame at the top-left, so imports apply this once with the destination
// image width. Applying it twice with the same width is the identity.
func (f *InstrumentFile) InvertX(imageWidth int) {
	for i, r := range f.Rows {
		f.SetCoords(i, float64(imageWidth)-r.X, r.Y)
	}
}

// ImportInstrument parses an instrument-dialect file. Rows with
// unparseable coordinates or IDs are skipped and counted; a missing
// required header aborts the import. No axis inversion happens here —
// callers apply InvertX with the destination image geometry.
func ImportInstrument(path string, format InstrumentFormat) (*InstrumentFile, int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("read %s: empty file", path)
	}

	headers := records[0]
	index := func(name string) int {
		for i, h := range headers {
			if strings.TrimSpace(h) == name {
				return i
			}
		}
		return -1
	}

	required := []string{format.IDColumn, format.XColumn, format.YColumn, format.LabelColumn}
	var missing []string
	for _, name := range required {
		if index(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s (in %s)", ErrMissingColumn, strings.Join(missing, ", "), path)
	}

	file := &InstrumentFile{
		Headers: headers,
		xIndex:  index(format.XColumn),
		yIndex:  index(format.YColumn),
	}
	idIdx := index(format.IDColumn)
	labelIdx := index(format.LabelColumn)

	skipped := 0
	for _, record := range records[1:] {
		row, err := parseInstrumentRow(record, idIdx, file.xIndex, file.yIndex, labelIdx, format.RefLabel)
		if err != nil {
			skipped++
			continue
		}
		file.Rows = append(file.Rows, row)
	}
	return file, skipped, nil
}

func parseInstrumentRow(record []string, idIdx, xIdx, yIdx, labelIdx int, refLabel string) (InstrumentRow, error) {
	max := idIdx
	for _, idx := range []int{xIdx, yIdx, labelIdx} {
		if idx > max {
			max = idx
		}
	}
	if max >= len(record) {
		return InstrumentRow{}, fmt.Errorf("%w: short record", ErrMalformedRow)
	}

	id, err := strconv.Atoi(strings.TrimSpace(record[idIdx]))
	if err != nil || id <= 0 {
		return InstrumentRow{}, fmt.Errorf("%w: id %q", ErrMalformedRow, record[idIdx])
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(record[xIdx]), 64)
	if err != nil {
		return InstrumentRow{}, fmt.Errorf("%w: x %q", ErrMalformedRow, record[xIdx])
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(record[yIdx]), 64)
	if err != nil {
		return InstrumentRow{}, fmt.Errorf("%w: y %q", ErrMalformedRow, record[yIdx])
	}

	return InstrumentRow{
		Record: record,
		ID:     id,
		X:      x,
		Y:      y,
		Ref:    strings.TrimSpace(record[labelIdx]) == refLabel,
	}, nil
}

// ExportInstrument writes a parsed (possibly recoordinated) instrument
// file back out with its original headers and column order.
func ExportInstrument(path string, file *InstrumentFile) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write(file.Headers); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range file.Rows {
		if err := w.Write(row.Record); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
