package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"musiccrib/pkg/models"

	"github.com/sirupsen/logrus"
)

// defaultBeats is the storefront's fixed offering: three individual beats and
// the bundle covering all of them.
var defaultBeats = []models.Beat{
	{Name: "Trap Vibe", Price: 29.99},
	{Name: "Drill Flow", Price: 34.99},
	{Name: "Lofi Chill", Price: 24.99},
	{Name: "Full Beat Pack", Price: 79.99, Bundle: true},
}

// sampleFiles maps beat names to their preview file names under the samples
// directory. The bundle has no single preview.
var sampleFiles = map[string]string{
	"Trap Vibe":  "trap-vibe-sample.mp3",
	"Drill Flow": "drill-flow-sample.mp3",
	"Lofi Chill": "lofi-chill-sample.mp3",
}

// Catalog is the beat offering plus the on-disk sample files backing
// previews. Sample availability tracks the samples directory, which may
// change while running.
type Catalog struct {
	mu         sync.RWMutex
	samplesDir string
	formats    []string
	beats      []models.Beat
	logger     *logrus.Logger

	stopWatcher func()
}

// New builds the catalog over the given samples directory and resolves which
// previews are currently present. formats lists the audio extensions the
// watcher reacts to.
func New(samplesDir string, formats []string, logger *logrus.Logger) *Catalog {
	c := &Catalog{
		samplesDir: samplesDir,
		formats:    formats,
		beats:      make([]models.Beat, len(defaultBeats)),
		logger:     logger,
	}
	copy(c.beats, defaultBeats)
	c.refresh()
	return c
}

// Beats returns the offering in display order.
func (c *Catalog) Beats() []models.Beat {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Beat, len(c.beats))
	copy(out, c.beats)
	return out
}

// Beat looks up one beat by its display name.
func (c *Catalog) Beat(name string) (models.Beat, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.beats {
		if b.Name == name {
			return b, true
		}
	}
	return models.Beat{}, false
}

// SamplePath returns the preview file for a beat, or an error when the beat
// has no preview on disk.
func (c *Catalog) SamplePath(name string) (string, error) {
	beat, ok := c.Beat(name)
	if !ok {
		return "", fmt.Errorf("unknown beat: %s", name)
	}
	if beat.SamplePath == "" {
		return "", fmt.Errorf("no sample available for %s", name)
	}
	return beat.SamplePath, nil
}

// isSupportedFormat reports whether a file name has one of the configured
// audio extensions.
func (c *Catalog) isSupportedFormat(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range c.formats {
		if supported == ext {
			return true
		}
	}
	return false
}

// refresh re-resolves sample paths against the samples directory.
func (c *Catalog) refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.beats {
		file, ok := sampleFiles[c.beats[i].Name]
		if !ok {
			continue
		}
		path := filepath.Join(c.samplesDir, file)
		if _, err := os.Stat(path); err == nil {
			c.beats[i].SamplePath = path
		} else {
			c.beats[i].SamplePath = ""
		}
	}
}

// Close stops the sample watcher if one is running.
func (c *Catalog) Close() {
	if c.stopWatcher != nil {
		c.stopWatcher()
		c.stopWatcher = nil
	}
}
