package templates

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/overlayassistant/overlay-go/internal/cv"
	"github.com/overlayassistant/overlay-go/internal/logging"
)

// Template is one decoded, pre-scaled pattern image with its per-pattern
// cooldown state. All fields except the fire timestamp are write-once at
// load time.
type Template struct {
	Name    string
	Native  *image.Gray
	Scaled  *image.Gray
	ScaledW int
	ScaledH int

	// Click offset applied after coordinate mapping
	OffsetX int
	OffsetY int

	// Optional per-template confidence override; 0 means use the engine's
	// configured threshold
	Threshold float64

	mu          sync.Mutex
	lastFiredAt time.Time
}

// LastFiredAt returns the time this template last triggered a dispatch
func (t *Template) LastFiredAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastFiredAt
}

// MarkFired records a firing event for cooldown tracking
func (t *Template) MarkFired(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastFiredAt = now
}

// CoolingDown reports whether the template is still inside its cooldown
// window and must not fire again yet.
func (t *Template) CoolingDown(now time.Time, cooldown time.Duration) bool {
	if cooldown <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastFiredAt.IsZero() {
		return false
	}
	return now.Sub(t.lastFiredAt) < cooldown
}

// Library is the ordered collection of loaded templates. Order is
// lexicographic by file name, fixed at load time, and determines round-robin
// priority. The library is structurally immutable once built.
type Library struct {
	templates []*Template
}

// NewLibrary builds a library from pre-constructed templates, preserving the
// given order. Used by hosts that assemble templates without a directory.
func NewLibrary(tmpls []*Template) *Library {
	return &Library{templates: tmpls}
}

// Len returns the number of loaded templates
func (l *Library) Len() int {
	return len(l.templates)
}

// At returns the template at the given load-order position
func (l *Library) At(i int) *Template {
	return l.templates[i]
}

// Names returns template names in load order
func (l *Library) Names() []string {
	names := make([]string, len(l.templates))
	for i, t := range l.templates {
		names[i] = t.Name
	}
	return names
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// Load builds a library from every raster image in dir, in lexicographic
// file-name order. Each image is decoded to single-channel intensity and a
// scaled copy is produced by area-averaged downsampling at scale.
//
// A file that fails to decode is logged and skipped without aborting the
// load. A missing or empty directory yields an empty library, not an error;
// callers must handle the zero-templates case.
func Load(dir string, scale float64, log *logging.Logger) (*Library, error) {
	lib := &Library{}

	if dir == "" {
		return lib, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.WarnWithContext("template folder not found", map[string]interface{}{"folder": dir})
			return lib, nil
		}
		return nil, fmt.Errorf("failed to read template folder %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	manifest, err := LoadManifest(dir)
	if err != nil {
		// A broken manifest never blocks loading; templates fall back to
		// zero offsets and the engine threshold.
		log.Warn(fmt.Sprintf("ignoring template manifest: %v", err))
		manifest = &Manifest{}
	}

	for _, name := range names {
		tmpl, err := loadOne(filepath.Join(dir, name), scale)
		if err != nil {
			log.ErrorWithContext("skipping template", err, map[string]interface{}{"file": name})
			continue
		}

		if def, ok := manifest.Lookup(name); ok {
			tmpl.OffsetX = def.Offset.X
			tmpl.OffsetY = def.Offset.Y
			tmpl.Threshold = def.Threshold
		}

		lib.templates = append(lib.templates, tmpl)
		log.DebugWithContext("loaded template", map[string]interface{}{
			"file":   name,
			"scaled": fmt.Sprintf("%dx%d", tmpl.ScaledW, tmpl.ScaledH),
		})
	}

	log.Info(fmt.Sprintf("loaded %d templates from %s", lib.Len(), dir))
	return lib, nil
}

// loadOne decodes and pre-scales a single template file
func loadOne(path string, scale float64) (*Template, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}

	native := cv.GrayFromImage(img)
	scaled := cv.Downsample(native, scale)

	return &Template{
		Name:    filepath.Base(path),
		Native:  native,
		Scaled:  scaled,
		ScaledW: scaled.Bounds().Dx(),
		ScaledH: scaled.Bounds().Dy(),
	}, nil
}
