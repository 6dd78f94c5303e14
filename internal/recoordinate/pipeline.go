package recoordinate

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"lasermark/internal/csvio"
	"lasermark/internal/point"
	"lasermark/internal/registry"
	"lasermark/pkg/geometry"
)

// ErrInsufficientReferencePoints is returned when either side of the
// correspondence has fewer than three reference marks.
var ErrInsufficientReferencePoints = errors.New("insufficient reference points")

// Options configures one recoordination run.
type Options struct {
	// Format names the instrument file's columns.
	Format csvio.InstrumentFormat
	// Defaults supplies metadata for the newly created points.
	Defaults point.Settings
	// ImageWidth and ImageHeight are the destination image's pixel
	// dimensions. The width drives the instrument-dialect x inversion;
	// both bound the out-of-image warning.
	ImageWidth  int
	ImageHeight int
	// Logger receives progress and per-row diagnostics. Nil disables
	// logging.
	Logger *log.Logger
}

// Result reports what a successful recoordination run produced.
type Result struct {
	// Added are the new points inserted into the registry, in file order.
	Added []point.Point
	// SkippedRows counts instrument rows dropped for parse failures.
	SkippedRows int
	// OutOfBounds is set when at least one recoordinated point lies
	// outside the destination image. A warning, not an error.
	OutOfBounds bool
	// Transform is the fitted affine map, exposed for diagnostics and
	// for re-exporting the instrument file.
	Transform geometry.AffineTransform
	// File is the parsed instrument file with all coordinates
	// recoordinated, ready for ExportInstrument.
	File *csvio.InstrumentFile
}

// Run recoordinates the instrument file at inputPath into the frame of
// the registry's image and inserts the resulting points.
//
// Pairing is positional: the i-th reference row in the file corresponds
// to the i-th RefMark point in registry insertion order. Nothing checks
// that the physical marks actually match — the operator must place and
// order them consistently on both sides.
//
// Structural failures (missing file or columns, fewer than three
// references on either side, degenerate geometry) abort before any
// point is inserted, leaving the registry unchanged. Rows that fail
// numeric parsing are skipped individually and surfaced in the result.
func Run(reg *registry.Registry, inputPath string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	destRefs := reg.ReferencePoints()
	if len(destRefs) < 3 {
		return nil, fmt.Errorf("%w: registry has %d RefMark points, need 3",
			ErrInsufficientReferencePoints, len(destRefs))
	}
	if err := opts.Defaults.NewPoint(0, 0).Validate(); err != nil {
		return nil, fmt.Errorf("default settings: %w", err)
	}

	logger.Info("loading instrument file", "path", inputPath)
	file, skipped, err := csvio.ImportInstrument(inputPath, opts.Format)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warn("skipped unparseable rows", "count", skipped)
	}
	if len(file.Rows) == 0 {
		return nil, fmt.Errorf("import %s: no valid rows (%d skipped)", inputPath, skipped)
	}

	// The instrument frame's x origin is at the top-right of the image.
	file.InvertX(opts.ImageWidth)

	srcRefs := file.ReferenceRows()
	if len(srcRefs) < 3 {
		return nil, fmt.Errorf("%w: instrument file has %d reference rows, need 3",
			ErrInsufficientReferencePoints, len(srcRefs))
	}

	// Only the first three on each side participate; extras are ignored.
	var src, dst [3]geometry.Point2D
	for i := 0; i < 3; i++ {
		src[i] = geometry.Point2D{X: srcRefs[i].X, Y: srcRefs[i].Y}
		dst[i] = geometry.Point2D{X: float64(destRefs[i].X), Y: float64(destRefs[i].Y)}
	}
	transform, err := FitAffine(src, dst)
	if err != nil {
		return nil, err
	}
	logger.Debug("fitted affine transform", "matrix", transform.ToMatrix())

	result := &Result{
		SkippedRows: skipped,
		Transform:   transform,
		File:        file,
	}

	// Recoordinate every row in place so a re-export carries the new
	// frame throughout, then build registry points from the targets.
	var added []point.Point
	for i, row := range file.Rows {
		x, y := ApplyToPixel(transform, row.X, row.Y)
		file.SetCoords(i, float64(x), float64(y))
		if x < 0 || x > opts.ImageWidth || y < 0 || y > opts.ImageHeight {
			result.OutOfBounds = true
		}
		if row.Ref {
			continue
		}

		p := opts.Defaults.NewPoint(x, y)
		p.ID = row.ID
		added = append(added, p)
	}

	for i, p := range added {
		inserted, err := reg.Add(p)
		if err != nil {
			// Defaults were validated up front; an insertion failure
			// here would leave a partial batch, so report loudly.
			return nil, fmt.Errorf("insert recoordinated point %d: %w", p.ID, err)
		}
		added[i] = inserted
	}
	result.Added = added

	logger.Info("recoordinated points",
		"added", len(added), "skipped", skipped, "outOfBounds", result.OutOfBounds)
	if result.OutOfBounds {
		logger.Warn("at least one recoordinated point lies outside the image boundary")
	}
	return result, nil
}
