package storefront

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"musiccrib/internal/cart"
	"musiccrib/internal/catalog"
	"musiccrib/internal/checkout"
	"musiccrib/internal/collab"
	"musiccrib/internal/config"
	"musiccrib/internal/contact"
	"musiccrib/internal/metadata"
	"musiccrib/internal/notify"
	"musiccrib/internal/playback"
	"musiccrib/internal/store"
	"musiccrib/internal/tracks"
	"musiccrib/pkg/models"

	"github.com/sirupsen/logrus"
)

// fallbackPreviewDuration is used when a source's length cannot be probed.
const fallbackPreviewDuration = 30 * time.Second

// Session is one running storefront: the catalog, the visitor's cart and
// library, checkout, playback, and the collaboration pipeline, all sharing
// one notification center and persistent store.
type Session struct {
	cfg    *config.Config
	logger *logrus.Logger

	Notifier  *notify.Center
	Cart      *cart.Cart
	Checkout  *checkout.Checkout
	Tracks    *tracks.Registry
	Catalog   *catalog.Catalog
	Downloads *catalog.Downloads
	Collab    *collab.Submitter
	Contact   *contact.Handler
	Playback  *playback.Session

	store       *store.SQLiteStore
	collabStore *collab.SQLiteDatastore
	prober      *metadata.Prober
}

// New assembles a storefront session from configuration. The collaboration
// mail trigger is attached only when mail is enabled; its SMTP password comes
// from the MAIL_PASSWORD environment variable.
func New(cfg *config.Config, logger *logrus.Logger) (*Session, error) {
	notifier := notify.NewCenter(logger)

	kv, err := store.NewSQLiteStore(cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	blobs, err := tracks.NewBlobStore(cfg.Uploads.BlobDir)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	collabStore, err := collab.NewSQLiteDatastore(cfg.Store.CollabStorePath, logger)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to open collaboration store: %w", err)
	}
	if cfg.Mail.Enabled {
		mailer := collab.NewSMTPMailer(cfg.Mail, os.Getenv("MAIL_PASSWORD"), logger)
		collabStore.OnCreate(collab.NewMailTrigger(mailer, cfg.Mail, logger))
		logger.Info("Collaboration mail trigger enabled")
	}

	prober := metadata.NewProber(logger)

	s := &Session{
		cfg:         cfg,
		logger:      logger,
		Notifier:    notifier,
		store:       kv,
		collabStore: collabStore,
		prober:      prober,
	}

	s.Cart = cart.New(kv, notifier, logger)
	s.Checkout = checkout.New(s.Cart, notifier, logger)
	s.Tracks = tracks.NewRegistry(kv, blobs, prober, notifier, logger)
	s.Catalog = catalog.New(cfg.Catalog.SamplesDir, cfg.Catalog.SupportedFormats, logger)
	s.Downloads = catalog.NewDownloads(cfg.Catalog.SamplesDir, cfg.Catalog.DownloadsDir, notifier, logger)
	s.Collab = collab.NewSubmitter(collabStore, notifier, logger)
	s.Contact = contact.NewHandler(notifier, logger)
	s.Playback = playback.NewSession(s.openSource, notifier, logger)

	if cfg.Catalog.WatchForChanges {
		if err := s.Catalog.StartWatcher(); err != nil {
			logger.WithError(err).Warn("Failed to start sample watcher")
		}
	}

	return s, nil
}

// LicenseBeat adds a catalog beat to the cart.
func (s *Session) LicenseBeat(name string) (models.CartItem, error) {
	beat, ok := s.Catalog.Beat(name)
	if !ok {
		return models.CartItem{}, fmt.Errorf("unknown beat: %s", name)
	}
	return s.Cart.Add(beat.Name, beat.Price), nil
}

// PlayBeat toggles preview playback for a catalog beat.
func (s *Session) PlayBeat(name string) (playback.Status, error) {
	beat, ok := s.Catalog.Beat(name)
	if !ok {
		return playback.StatusIdle, fmt.Errorf("unknown beat: %s", name)
	}
	return s.Playback.Toggle("beat:"+beat.Name, beat.Name)
}

// PlayTrack toggles playback for an uploaded track.
func (s *Session) PlayTrack(id int64) (playback.Status, error) {
	track, ok := s.Tracks.Get(id)
	if !ok {
		return playback.StatusIdle, fmt.Errorf("no track with id %d", id)
	}
	return s.Playback.Toggle(fmt.Sprintf("track:%d", track.ID), track.Title)
}

// UploadFiles ingests a batch of uploads, rejecting oversize payloads before
// the registry sees them.
func (s *Session) UploadFiles(files []tracks.File) []models.UploadedTrack {
	maxBytes := s.cfg.Uploads.MaxFileSizeMB * 1024 * 1024
	accepted := make([]tracks.File, 0, len(files))
	for _, f := range files {
		if int64(len(f.Data)) > maxBytes {
			s.logger.WithFields(logrus.Fields{
				"name": f.Name,
				"size": metadata.FormatSize(int64(len(f.Data))),
			}).Warn("Rejected oversize upload")
			s.Notifier.Publish(notify.SeverityWarning,
				fmt.Sprintf("⚠️ \"%s\" is too large (max %d MB)", f.Name, s.cfg.Uploads.MaxFileSizeMB))
			continue
		}
		accepted = append(accepted, f)
	}
	return s.Tracks.UploadAll(accepted)
}

// DeleteTrack starts the two-step deletion flow for an uploaded track.
func (s *Session) DeleteTrack(id int64) (*tracks.Deletion, error) {
	return s.Tracks.RequestDelete(id)
}

// SubmitCollaboration validates and stores a collaboration request.
func (s *Session) SubmitCollaboration(ctx context.Context, f collab.Form) (*models.CollaborationRequest, error) {
	return s.Collab.Submit(ctx, f)
}

// DownloadSample delivers a free beat sample.
func (s *Session) DownloadSample(actionID string) (string, error) {
	return s.Downloads.Download(actionID)
}

// openSource resolves a playback source ID to a timed handle. Beat previews
// read their sample file; uploaded tracks read their stored payload. The
// handle's clock runs for the probed duration and reports natural end back to
// the playback session.
func (s *Session) openSource(sourceID string) (playback.Handle, error) {
	name, data, knownDuration, err := s.resolveSource(sourceID)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(knownDuration) * time.Second
	if duration <= 0 {
		if secs, err := metadata.Duration(name, data); err == nil && secs > 0 {
			duration = time.Duration(secs) * time.Second
		} else {
			duration = fallbackPreviewDuration
		}
	}

	return playback.NewTimedHandle(duration, func() {
		s.Playback.SourceEnded(sourceID)
	})
}

// resolveSource loads the payload behind a source ID.
func (s *Session) resolveSource(sourceID string) (name string, data []byte, durationSecs int, err error) {
	switch {
	case strings.HasPrefix(sourceID, "beat:"):
		beatName := strings.TrimPrefix(sourceID, "beat:")
		path, err := s.Catalog.SamplePath(beatName)
		if err != nil {
			return "", nil, 0, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, 0, fmt.Errorf("failed to read sample for %s: %w", beatName, err)
		}
		return filepath.Base(path), data, 0, nil

	case strings.HasPrefix(sourceID, "track:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(sourceID, "track:"), 10, 64)
		if err != nil {
			return "", nil, 0, fmt.Errorf("bad track source id %q: %w", sourceID, err)
		}
		track, ok := s.Tracks.Get(id)
		if !ok {
			return "", nil, 0, fmt.Errorf("no track with id %d", id)
		}
		data, err := s.Tracks.Open(id)
		if err != nil {
			return "", nil, 0, err
		}
		return track.Name, data, track.Duration, nil

	default:
		return "", nil, 0, fmt.Errorf("unknown source id: %s", sourceID)
	}
}

// Close stops playback and releases the stores.
func (s *Session) Close() error {
	s.Playback.Stop()
	s.Catalog.Close()

	var firstErr error
	if err := s.collabStore.Close(); err != nil {
		firstErr = err
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
