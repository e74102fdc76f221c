package models

import "time"

// UploadedTrack is a user-added audio track. Only metadata is serialized to
// the persistent store; the raw payload lives in the blob store keyed by ID.
type UploadedTrack struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Size       string    `json:"size"` // human readable, e.g. "1.5 KB"
	SizeBytes  int64     `json:"sizeBytes"`
	MediaType  string    `json:"mediaType"`
	Title      string    `json:"title,omitempty"`
	Artist     string    `json:"artist,omitempty"`
	Duration   int       `json:"duration"` // in seconds, 0 when unknown
	UploadedAt time.Time `json:"uploadedAt"`
}

// Beat is one licensable entry from the storefront catalog.
type Beat struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	SamplePath string  `json:"-"` // don't expose file path to the front end
	Bundle     bool    `json:"bundle,omitempty"`
}
