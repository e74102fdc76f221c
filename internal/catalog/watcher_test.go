package catalog

import (
	"testing"
	"time"
)

func TestWatcherPicksUpNewSample(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, testFormats, quietLogger())
	defer c.Close()

	if err := c.StartWatcher(); err != nil {
		t.Fatalf("StartWatcher() error: %v", err)
	}

	if _, err := c.SamplePath("Drill Flow"); err == nil {
		t.Fatal("sample resolved before file existed")
	}

	writeSample(t, dir, "drill-flow-sample.mp3")

	// The watcher waits 500ms after a create event before refreshing
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := c.SamplePath("Drill Flow"); err == nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher never picked up the new sample")
}

func TestWatcherStartFailsOnMissingDir(t *testing.T) {
	c := New("/nonexistent/samples/dir", testFormats, quietLogger())
	if err := c.StartWatcher(); err == nil {
		c.Close()
		t.Fatal("StartWatcher() succeeded on missing directory")
	}
}
