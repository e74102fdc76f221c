package catalog

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// StartWatcher begins monitoring the samples directory so previews added or
// removed while running show up without a restart.
func (c *Catalog) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	c.stopWatcher = func() {
		close(done)
		watcher.Close()
	}

	go c.watchSamples(watcher, done)

	if err := watcher.Add(c.samplesDir); err != nil {
		c.stopWatcher()
		c.stopWatcher = nil
		return err
	}

	c.logger.WithField("samples_dir", c.samplesDir).Info("Sample watcher started")
	return nil
}

// watchSamples selects on watcher channels and refreshes sample availability.
func (c *Catalog) watchSamples(watcher *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			c.handleSampleEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.WithError(err).Error("Sample watcher error")

		case <-done:
			return
		}
	}
}

// handleSampleEvent refreshes the catalog when a sample file appears or
// disappears.
func (c *Catalog) handleSampleEvent(event fsnotify.Event) {
	// Ignore temporary files, hidden files and non-audio formats
	fileName := filepath.Base(event.Name)
	if strings.HasPrefix(fileName, ".") || strings.HasSuffix(fileName, ".tmp") {
		return
	}
	if !c.isSupportedFormat(fileName) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		// Delay so a file still being copied in is fully written
		go func() {
			time.Sleep(500 * time.Millisecond)
			c.logger.WithField("file", fileName).Info("New sample file detected")
			c.refresh()
		}()

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		c.logger.WithField("file", fileName).Info("Sample file removed")
		c.refresh()
	}
}
