package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/sirupsen/logrus"
	"github.com/tcolgate/mp3"
)

// Prober extracts metadata from in-memory audio payloads: tag title/artist
// plus a per-format duration probe.
type Prober struct {
	logger *logrus.Logger
}

// NewProber creates a metadata prober.
func NewProber(logger *logrus.Logger) *Prober {
	return &Prober{logger: logger}
}

// TrackInfo is the metadata derived from one audio payload.
type TrackInfo struct {
	Title    string
	Artist   string
	Duration int // in seconds, 0 when unknown
}

// Describe extracts tags and duration from an audio payload. Failures
// degrade to filename-derived metadata rather than erroring; a track without
// tags is still a playable track.
func (p *Prober) Describe(name string, data []byte) TrackInfo {
	duration, err := Duration(name, data)
	if err != nil {
		p.logger.WithError(err).WithField("name", name).Warn("Failed to calculate duration, setting to 0")
		duration = 0
	}

	info := TrackInfo{
		Title:    strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		Duration: duration,
	}

	meta, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		p.logger.WithError(err).WithField("name", name).Debug("No readable tags, using filename")
		return info
	}

	if title := meta.Title(); title != "" {
		info.Title = title
	}
	info.Artist = meta.Artist()
	return info
}

// Duration calculates the duration of an audio payload in seconds, selecting
// the probe by file extension.
func Duration(name string, data []byte) (int, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".mp3":
		return durationMP3(data)
	case ".flac":
		return durationFLAC(data)
	case ".wav":
		return durationWAV(data)
	default:
		return 0, fmt.Errorf("unsupported format: %s", ext)
	}
}

// MP3 duration using frame decoding; fall back to average bitrate estimation
// only if no frame decodes at all.
func durationMP3(data []byte) (int, error) {
	dec := mp3.NewDecoder(bytes.NewReader(data))
	var total time.Duration
	var skipped int
	frames := 0
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if frames == 0 {
				// assume 192 kbps = 192000 bps
				return int((int64(len(data)) * 8) / 192000), nil
			}
			break // partial decode; use what we have
		}
		total += fr.Duration()
		frames++
	}
	return int(total.Seconds()), nil
}

// FLAC duration via STREAMINFO metadata block
func durationFLAC(data []byte) (int, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	si := stream.Info
	if si.NSamples > 0 && si.SampleRate > 0 {
		secs := float64(si.NSamples) / float64(si.SampleRate)
		return int(secs + 0.5), nil
	}
	return 0, fmt.Errorf("flac stream missing sample info")
}

// WAV duration using go-audio/wav to read the header; sample count is
// approximated from the payload size past the 44-byte header.
func durationWAV(data []byte) (int, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("invalid wav file")
	}
	if dec.SampleRate == 0 || dec.BitDepth == 0 || dec.NumChans == 0 {
		return 0, fmt.Errorf("invalid wav header")
	}
	headerSize := int64(44)
	pcmBytes := int64(len(data)) - headerSize
	if pcmBytes < 0 {
		pcmBytes = 0
	}
	bytesPerSampleFrame := int64(dec.BitDepth/8) * int64(dec.NumChans)
	if bytesPerSampleFrame <= 0 {
		return 0, fmt.Errorf("invalid sample frame size")
	}
	sampleFrames := pcmBytes / bytesPerSampleFrame
	secs := float64(sampleFrames) / float64(dec.SampleRate)
	return int(secs + 0.5), nil
}

// IsAudioType reports whether a declared media type indicates audio; this is
// the upload gate.
func IsAudioType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "audio/")
}

// ContentTypeFor returns the MIME type for an audio file name.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
