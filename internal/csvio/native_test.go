package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lasermark/internal/point"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExportNativeFormat(t *testing.T) {
	p := point.Point{
		ID:         5,
		Label:      point.LabelSpot,
		X:          120,
		Y:          340,
		Diameter:   30,
		Scale:      2.5,
		Colour:     "#ff0000",
		SampleName: "sample1",
		MountName:  "mount1",
		Material:   "duck",
		Notes:      "note",
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportNative(path, []point.Point{p}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "Name,label,x,y,diameter,scale,colour,mount_name,material,notes\n" +
		"sample1_#005,Spot,120,340,30,2.5,#ff0000,mount1,duck,note\n"
	assert.Equal(t, want, string(data))
}

func TestNativeRoundTrip(t *testing.T) {
	points := []point.Point{
		{ID: 1, Label: point.LabelRefMark, X: 10, Y: 20, Diameter: 10, Scale: 1,
			Colour: "#ffff00", SampleName: "None", MountName: "None", Material: "None"},
		{ID: 2, Label: point.LabelSpot, X: 30, Y: 40, Diameter: 50, Scale: 0.5,
			Colour: "#00ff00", SampleName: "ab_#cd", MountName: "m", Material: "x", Notes: "n"},
	}

	path := filepath.Join(t.TempDir(), "rt.csv")
	require.NoError(t, ExportNative(path, points))

	got, skipped, err := ImportNative(path, point.DefaultSettings())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, points, got)
}

func TestImportNativeZColumnIgnored(t *testing.T) {
	path := writeCSV(t, "Name,label,x,y,z,diameter\nrun_#001,Spot,5,6,123,15\n")

	got, skipped, err := ImportNative(path, point.DefaultSettings())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "run", got[0].SampleName)
	assert.Equal(t, 5, got[0].X)
	assert.Equal(t, 6, got[0].Y)
	assert.Equal(t, 15, got[0].Diameter)
}

func TestImportNativeTypeHeaderAlias(t *testing.T) {
	path := writeCSV(t, "Name,type,x,y\n3,Spot,1,2\n")

	got, _, err := ImportNative(path, point.DefaultSettings())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, point.LabelSpot, got[0].Label)
	assert.Equal(t, 3, got[0].ID)
}

func TestImportNativeDefaultsFillGaps(t *testing.T) {
	defaults := point.DefaultSettings()
	defaults.Colour = "#123456"
	defaults.Diameter = 40

	// Only Name and coordinates present.
	path := writeCSV(t, "Name,x,y\nsamp_#007,11,22\n")

	got, _, err := ImportNative(path, defaults)
	require.NoError(t, err)
	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "samp", p.SampleName)
	assert.Equal(t, defaults.Label, p.Label)
	assert.Equal(t, 40, p.Diameter)
	assert.Equal(t, defaults.Scale, p.Scale)
	assert.Equal(t, "#123456", p.Colour)
	assert.Equal(t, defaults.MountName, p.MountName)
	assert.Equal(t, defaults.Material, p.Material)
}

func TestImportNativeEmptyNameUsesRowNumber(t *testing.T) {
	path := writeCSV(t, "Name,x,y\n,1,1\n,2,2\n")

	got, _, err := ImportNative(path, point.DefaultSettings())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
}

func TestImportNativeSplitsOnLastJoin(t *testing.T) {
	path := writeCSV(t, "Name,x,y\na_#b_#012,1,1\n")

	got, _, err := ImportNative(path, point.DefaultSettings())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12, got[0].ID)
	assert.Equal(t, "a_#b", got[0].SampleName)
}

func TestImportNativeSkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, "Name,label,x,y\n"+
		"s_#001,Spot,1,2\n"+
		"s_#abc,Spot,3,4\n"+ // bad ID
		"s_#003,Spot,oops,6\n"+ // bad x
		"s_#004,Blob,7,8\n"+ // bad label
		"s_#005,Spot,9,10\n")

	got, skipped, err := ImportNative(path, point.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 5, got[1].ID)
}

func TestImportNativeRejectsNonPositiveIDs(t *testing.T) {
	path := writeCSV(t, "Name,x,y\n"+
		"s_#-5,1,2\n"+
		"s_#000,3,4\n"+
		"0,5,6\n"+
		"s_#007,7,8\n")

	got, skipped, err := ImportNative(path, point.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ID)
}

func TestImportNativeAllRowsBadIsError(t *testing.T) {
	path := writeCSV(t, "Name,x,y\nnotanumber,1,2\n")

	_, skipped, err := ImportNative(path, point.DefaultSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.Equal(t, 1, skipped)
}

func TestImportNativeMissingNameColumn(t *testing.T) {
	path := writeCSV(t, "label,x,y\nSpot,1,2\n")

	_, _, err := ImportNative(path, point.DefaultSettings())
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestImportNativeMissingFile(t *testing.T) {
	_, _, err := ImportNative(filepath.Join(t.TempDir(), "nope.csv"), point.DefaultSettings())
	assert.Error(t, err)
}
