package domain

// DefaultKeyPrefix namespaces every key the service writes to the store.
const DefaultKeyPrefix = "archivist:"

// UploadConfig holds upload queue limits, not exposed to clients.
type UploadConfig struct {
	MaxFileSize int64
	Workers     int
	QueueSize   int
}

// DefaultUploadConfig returns limits matching the upload screen (100 MB per file).
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		MaxFileSize: 100 * 1024 * 1024,
		Workers:     4,
		QueueSize:   64,
	}
}
