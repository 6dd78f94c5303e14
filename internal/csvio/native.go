package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lasermark/internal/point"
)

// NativeHeaders is the exact export column order of the native dialect.
// Name carries the merged sample name and ID.
var NativeHeaders = []string{
	"Name", "label", "x", "y", "diameter", "scale", "colour",
	"mount_name", "material", "notes",
}

// nameJoin is the literal pattern joining sample name and ID in the
// exported Name column. Import splits on its last occurrence.
const nameJoin = "_#"

// ExportNative writes all points to path in the native dialect.
func ExportNative(path string, points []point.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(NativeHeaders); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, p := range points {
		record := []string{
			// IDs are zero-padded to three digits for the laser software.
			fmt.Sprintf("%s%s%03d", p.SampleName, nameJoin, p.ID),
			string(p.Label),
			strconv.Itoa(p.X),
			strconv.Itoa(p.Y),
			strconv.Itoa(p.Diameter),
			strconv.FormatFloat(p.Scale, 'g', -1, 64),
			p.Colour,
			p.MountName,
			p.Material,
			p.Notes,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ImportNative reads a native-dialect file back into points. Missing
// optional fields fall back to defaults; rows with non-numeric required
// fields are skipped and counted. The returned error is non-nil only for
// structural failures, or when every data row was skipped.
func ImportNative(path string, defaults point.Settings) ([]point.Point, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("read %s: empty file", path)
	}

	cols := nativeColumns(records[0])
	if _, ok := cols["name"]; !ok {
		return nil, 0, fmt.Errorf("%w: Name (in %s)", ErrMissingColumn, path)
	}

	var (
		points  []point.Point
		skipped int
		lastErr error
	)
	for i, record := range records[1:] {
		p, err := parseNativeRow(record, cols, i+1, defaults)
		if err != nil {
			skipped++
			lastErr = rowError(i+1, err)
			continue
		}
		points = append(points, p)
	}

	if len(points) == 0 && skipped > 0 {
		return nil, skipped, fmt.Errorf("import %s: no valid rows: %w", path, lastErr)
	}
	return points, skipped, nil
}

// nativeColumns maps normalised header names to record indices. The Z
// column the laser software requires is dropped here, and a handful of
// legacy header spellings are accepted.
func nativeColumns(header []string) map[string]int {
	aliases := map[string]string{
		"type": "label",
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "z" {
			continue
		}
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		cols[key] = i
	}
	return cols
}

// cell returns the trimmed value of the named column, or "" when the
// column is absent from the file or the record is short.
func cell(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseNativeRow(record []string, cols map[string]int, rowNum int, defaults point.Settings) (point.Point, error) {
	var p point.Point

	// Split the merged Name column into sample name and ID on the last
	// join occurrence. A bare numeric Name is an ID with no sample name.
	name := cell(record, cols, "name")
	p.SampleName = defaults.SampleName
	switch {
	case name == "":
		p.ID = rowNum
	case strings.Contains(name, nameJoin):
		at := strings.LastIndex(name, nameJoin)
		id, err := strconv.Atoi(name[at+len(nameJoin):])
		if err != nil || id <= 0 {
			return point.Point{}, fmt.Errorf("%w: Name %q", ErrMalformedRow, name)
		}
		p.ID = id
		p.SampleName = name[:at]
	default:
		id, err := strconv.Atoi(name)
		if err != nil || id <= 0 {
			return point.Point{}, fmt.Errorf("%w: Name %q", ErrMalformedRow, name)
		}
		p.ID = id
	}

	label := cell(record, cols, "label")
	if label == "" {
		p.Label = defaults.Label
	} else {
		parsed, err := point.ParseLabel(label)
		if err != nil {
			return point.Point{}, err
		}
		p.Label = parsed
	}

	var err error
	if p.X, err = intCell(record, cols, "x", 0); err != nil {
		return point.Point{}, err
	}
	if p.Y, err = intCell(record, cols, "y", 0); err != nil {
		return point.Point{}, err
	}
	if p.Diameter, err = intCell(record, cols, "diameter", defaults.Diameter); err != nil {
		return point.Point{}, err
	}
	if p.Scale, err = floatCell(record, cols, "scale", defaults.Scale); err != nil {
		return point.Point{}, err
	}

	p.Colour = cellOr(record, cols, "colour", defaults.Colour)
	p.MountName = cellOr(record, cols, "mount_name", defaults.MountName)
	p.Material = cellOr(record, cols, "material", defaults.Material)
	p.Notes = cell(record, cols, "notes")
	return p, nil
}

func cellOr(record []string, cols map[string]int, name, fallback string) string {
	if v := cell(record, cols, name); v != "" {
		return v
	}
	return fallback
}

func intCell(record []string, cols map[string]int, name string, fallback int) (int, error) {
	v := cell(record, cols, name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedRow, name, v)
	}
	return n, nil
}

func floatCell(record []string, cols map[string]int, name string, fallback float64) (float64, error) {
	v := cell(record, cols, name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedRow, name, v)
	}
	return n, nil
}
