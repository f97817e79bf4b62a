package preset

import (
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

const mb = 1024 * 1024

// SizeBucket is a named file size class.
type SizeBucket string

// Size buckets. Bounds are in bytes, lower bound inclusive, upper exclusive.
const (
	Small  SizeBucket = "small"  // < 10 MB
	Medium SizeBucket = "medium" // 10-100 MB
	Large  SizeBucket = "large"  // 100-500 MB
	XLarge SizeBucket = "xlarge" // > 500 MB
)

var sizeBounds = map[SizeBucket][2]float64{
	Small:  {-1, 10 * mb},
	Medium: {10 * mb, 100 * mb},
	Large:  {100 * mb, 500 * mb},
	XLarge: {500 * mb, -1},
}

// IsValid checks if the bucket is one of the supported values.
func (s SizeBucket) IsValid() bool {
	_, ok := sizeBounds[s]
	return ok
}

// Range returns the byte interval of the bucket.
func (s SizeBucket) Range() (query.Range, error) {
	b, ok := sizeBounds[s]
	if !ok {
		return query.Range{}, nil
	}
	var from, to record.Value
	if b[0] >= 0 {
		from = record.Number(b[0])
	}
	if b[1] >= 0 {
		// sizes are whole bytes
		to = record.Number(b[1] - 1)
	}
	return query.NewRange(from, to)
}
