package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"musiccrib/internal/notify"

	"github.com/sirupsen/logrus"
)

// SampleDownload describes one downloadable preview: the beat's display name
// and the sample file to deliver.
type SampleDownload struct {
	Name string
	File string
}

// sampleDownloads maps download action IDs to their sample files.
var sampleDownloads = map[string]SampleDownload{
	"downloadTrapVibe":  {Name: "Trap Vibe", File: "trap-vibe-sample.mp3"},
	"downloadDrillFlow": {Name: "Drill Flow", File: "drill-flow-sample.mp3"},
	"downloadLofiChill": {Name: "Lofi Chill", File: "lofi-chill-sample.mp3"},
}

// Downloads delivers free beat samples to a local downloads directory.
type Downloads struct {
	samplesDir string
	destDir    string
	notifier   *notify.Center
	logger     *logrus.Logger
}

// NewDownloads creates the sample download handler.
func NewDownloads(samplesDir, destDir string, notifier *notify.Center, logger *logrus.Logger) *Downloads {
	return &Downloads{
		samplesDir: samplesDir,
		destDir:    destDir,
		notifier:   notifier,
		logger:     logger,
	}
}

// Actions lists the available download action IDs.
func (d *Downloads) Actions() []string {
	out := make([]string, 0, len(sampleDownloads))
	for id := range sampleDownloads {
		out = append(out, id)
	}
	return out
}

// Download copies the sample behind an action ID into the downloads
// directory and announces the delivery.
func (d *Downloads) Download(actionID string) (string, error) {
	sample, ok := sampleDownloads[actionID]
	if !ok {
		return "", fmt.Errorf("unknown download action: %s", actionID)
	}

	src := filepath.Join(d.samplesDir, sample.File)
	dst := filepath.Join(d.destDir, sample.File)
	if err := copyFile(src, dst); err != nil {
		d.logger.WithError(err).WithField("file", sample.File).Error("Failed to deliver sample")
		d.notifier.Publish(notify.SeverityError, fmt.Sprintf("%s sample is not available right now.", sample.Name))
		return "", err
	}

	d.logger.WithFields(logrus.Fields{
		"name": sample.Name,
		"dest": dst,
	}).Info("Sample download delivered")
	d.notifier.Publish(notify.SeverityInfo, fmt.Sprintf("%s download started!", sample.Name))
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
