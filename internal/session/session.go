// Package session provides project file handling and persistence.
//
// A project file captures one editing session: the image being
// annotated, the last CSV touched, the current default point settings,
// and every registered point. Sessions are plain JSON so they stay
// inspectable and diffable.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"lasermark/internal/point"
	"lasermark/internal/registry"
)

// File represents a lasermark project file.
type File struct {
	Version  int       `json:"version"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	ImagePath string `json:"image_path,omitempty"`
	CSVPath   string `json:"csv_path,omitempty"`

	Settings point.Settings `json:"settings"`
	Points   []point.Point  `json:"points,omitempty"`
}

// New creates a project file with default settings.
func New(imagePath string) *File {
	now := time.Now()
	return &File{
		Version:   1,
		Created:   now,
		Modified:  now,
		ImagePath: imagePath,
		Settings:  point.DefaultSettings(),
	}
}

// Load reads a project from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the project to path, bumping the modified timestamp.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Capture snapshots the registry's points into the project.
func (f *File) Capture(reg *registry.Registry) {
	f.Points = reg.Points()
}

// Restore rebuilds a registry from the stored points, preserving IDs
// and insertion order.
func (f *File) Restore() (*registry.Registry, error) {
	reg := registry.New()
	for _, p := range f.Points {
		if _, err := reg.Add(p); err != nil {
			return nil, fmt.Errorf("point %d: %w", p.ID, err)
		}
	}
	return reg, nil
}
