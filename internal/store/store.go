package store

// Store is the narrow persistence boundary the cart and the track registry
// depend on. Values are JSON-serialized under string keys; each component
// owns a disjoint key, so no cross-key transaction is ever needed.
//
// Write failures are non-fatal by policy: callers log and surface a warning
// while keeping their in-memory state authoritative for the session.
type Store interface {
	// Load reads the value stored under key into v. The boolean reports
	// whether the key existed.
	Load(key string, v any) (bool, error)

	// Save serializes v and writes it under key, replacing any previous
	// value.
	Save(key string, v any) error

	// Delete removes the key if present.
	Delete(key string) error
}
