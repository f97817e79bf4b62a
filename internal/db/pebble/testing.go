package pebble

import "time"

// SetClockForTest replaces the store clock (test-only).
func (s *Store) SetClockForTest(now func() time.Time) {
	s.now = now
}
