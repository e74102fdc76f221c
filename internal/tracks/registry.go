package tracks

import (
	"fmt"
	"sync"
	"time"

	"musiccrib/internal/metadata"
	"musiccrib/internal/notify"
	"musiccrib/internal/store"
	"musiccrib/pkg/models"

	"github.com/sirupsen/logrus"
)

// StorageKey is the key-value store slot for the track registry.
const StorageKey = "uploadedTracks"

// ErrNotAudio is returned when an upload's declared media type is not audio.
var ErrNotAudio = fmt.Errorf("not an audio file")

// File is one incoming upload: the client-declared name and media type plus
// the raw payload.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Registry owns the user's uploaded track library. Metadata persists through
// the key-value store under StorageKey; payloads live in the blob store,
// addressed by track ID.
type Registry struct {
	mu       sync.Mutex
	store    store.Store
	blobs    *BlobStore
	prober   *metadata.Prober
	notifier *notify.Center
	logger   *logrus.Logger

	tracks []models.UploadedTrack
	lastID int64
}

// NewRegistry loads the registry from the store. A load failure degrades to
// an empty library rather than blocking startup.
func NewRegistry(s store.Store, blobs *BlobStore, prober *metadata.Prober, notifier *notify.Center, logger *logrus.Logger) *Registry {
	r := &Registry{
		store:    s,
		blobs:    blobs,
		prober:   prober,
		notifier: notifier,
		logger:   logger,
	}

	var tracks []models.UploadedTrack
	found, err := s.Load(StorageKey, &tracks)
	if err != nil {
		logger.WithError(err).Warn("Failed to load uploaded tracks, starting with empty library")
	} else if found {
		r.tracks = tracks
		for _, t := range tracks {
			if t.ID > r.lastID {
				r.lastID = t.ID
			}
		}
		logger.WithField("tracks", len(tracks)).Debug("Loaded uploaded tracks")
	}
	return r
}

// Upload ingests one file. Non-audio media types are rejected with a warning
// notice and no state change. The payload is written to the blob store before
// the registry record exists, so a crash between the two leaves an orphan
// blob, never a dangling record.
func (r *Registry) Upload(f File) (*models.UploadedTrack, error) {
	if !metadata.IsAudioType(f.MediaType) {
		r.logger.WithFields(logrus.Fields{
			"name": f.Name,
			"type": f.MediaType,
		}).Warn("Rejected non-audio upload")
		r.notifier.Publish(notify.SeverityWarning, "⚠️ Please upload audio files only (MP3, WAV, OGG)")
		return nil, ErrNotAudio
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID()
	if err := r.blobs.Put(id, f.Data); err != nil {
		r.logger.WithError(err).WithField("name", f.Name).Error("Failed to store upload payload")
		r.notifier.Publish(notify.SeverityError, fmt.Sprintf("Failed to upload \"%s\".", f.Name))
		return nil, err
	}

	info := r.prober.Describe(f.Name, f.Data)
	track := models.UploadedTrack{
		ID:         id,
		Name:       f.Name,
		Size:       metadata.FormatSize(int64(len(f.Data))),
		SizeBytes:  int64(len(f.Data)),
		MediaType:  f.MediaType,
		Title:      info.Title,
		Artist:     info.Artist,
		Duration:   info.Duration,
		UploadedAt: time.Now(),
	}

	r.tracks = append(r.tracks, track)
	r.persist()

	r.logger.WithFields(logrus.Fields{
		"id":   track.ID,
		"name": track.Name,
		"size": track.Size,
	}).Info("Track uploaded")
	r.notifier.Publish(notify.SeveritySuccess, fmt.Sprintf("✅ \"%s\" uploaded successfully!", track.Name))

	return &track, nil
}

// UploadAll ingests a batch; each file succeeds or fails on its own.
func (r *Registry) UploadAll(files []File) []models.UploadedTrack {
	var added []models.UploadedTrack
	for _, f := range files {
		track, err := r.Upload(f)
		if err != nil {
			continue
		}
		added = append(added, *track)
	}
	return added
}

// Tracks returns a copy of the library in upload order.
func (r *Registry) Tracks() []models.UploadedTrack {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.UploadedTrack, len(r.tracks))
	copy(out, r.tracks)
	return out
}

// Get returns the track with the given ID.
func (r *Registry) Get(id int64) (models.UploadedTrack, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tracks {
		if t.ID == id {
			return t, true
		}
	}
	return models.UploadedTrack{}, false
}

// Open returns the raw payload of an uploaded track for playback.
func (r *Registry) Open(id int64) ([]byte, error) {
	if _, ok := r.Get(id); !ok {
		return nil, fmt.Errorf("no track with id %d", id)
	}
	return r.blobs.Get(id)
}

// Deletion is a pending two-step delete. Nothing changes until Confirm.
type Deletion struct {
	registry *Registry
	track    models.UploadedTrack
	done     bool
}

// RequestDelete starts the deletion flow for a track.
func (r *Registry) RequestDelete(id int64) (*Deletion, error) {
	track, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("no track with id %d", id)
	}
	return &Deletion{registry: r, track: track}, nil
}

// Message is the confirmation prompt shown before a destructive delete.
func (d *Deletion) Message() string {
	return fmt.Sprintf("Are you sure you want to permanently delete \"%s\"? This action cannot be undone.", d.track.Name)
}

// Track returns the track pending deletion.
func (d *Deletion) Track() models.UploadedTrack {
	return d.track
}

// Confirm removes the track record and its payload. Confirming twice is a
// no-op.
func (d *Deletion) Confirm() error {
	if d.done {
		return nil
	}
	d.done = true
	return d.registry.remove(d.track.ID)
}

// Cancel abandons the deletion; the track is untouched.
func (d *Deletion) Cancel() {
	d.done = true
}

func (r *Registry) remove(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tracks {
		if t.ID != id {
			continue
		}
		r.tracks = append(r.tracks[:i], r.tracks[i+1:]...)
		r.persist()
		if err := r.blobs.Delete(id); err != nil {
			r.logger.WithError(err).WithField("id", id).Warn("Failed to delete payload")
		}
		r.logger.WithFields(logrus.Fields{
			"id":   id,
			"name": t.Name,
		}).Info("Track deleted")
		r.notifier.Publish(notify.SeverityInfo, fmt.Sprintf("\"%s\" deleted.", t.Name))
		return nil
	}
	return fmt.Errorf("no track with id %d", id)
}

// nextID mints a unix-millisecond track ID, bumping on collision so two
// uploads in the same millisecond stay distinct. Must be called with the lock
// held.
func (r *Registry) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

// persist writes the registry snapshot to the store. On failure the in-memory
// library stays authoritative for the session. Must be called with the lock
// held.
func (r *Registry) persist() {
	if err := r.store.Save(StorageKey, r.tracks); err != nil {
		r.logger.WithError(err).Error("Failed to save uploaded tracks")
		r.notifier.Publish(notify.SeverityWarning, "Could not save your library. Changes will be kept for this session only.")
	}
}
