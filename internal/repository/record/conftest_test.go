package record

import (
	"context"
	"maps"
	"path"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/archivist/internal/db"
	domrec "github.com/kailas-cloud/archivist/internal/domain/record"
)

// fakeStore is an in-memory store. Scan returns keys in reverse order
// so ordering in All is exercised.
type fakeStore struct {
	data    map[string][]byte
	scanErr error
	// scanRepeats lists keys Scan reports twice, as SCAN does during a rehash.
	scanRepeats []string
	getErr  error
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) GetMulti(_ context.Context, keys []string) ([][]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = f.data[k]
	}
	return out, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	if _, ok := f.data[key]; ok {
		return db.ErrKeyExists
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var keys []string
	for _, k := range slices.Sorted(maps.Keys(f.data)) {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	slices.Reverse(keys)
	return append(keys, f.scanRepeats...), nil
}

func newTestRepo(t *testing.T) (*Repo, *fakeStore) {
	t.Helper()
	fs := newFakeStore()
	return New(fs, "test:"), fs
}

func sampleRecord(t *testing.T, id string) domrec.Record {
	t.Helper()
	rec, err := domrec.New(id, map[string]domrec.Value{
		domrec.FieldTitle:      domrec.String("Historical Manuscript Collection"),
		domrec.FieldTags:       domrec.Tags("history", "manuscripts"),
		domrec.FieldSize:       domrec.Number(47_500_000),
		domrec.FieldUploadDate: domrec.Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		domrec.FieldStatus:     domrec.String(string(domrec.StatusPublished)),
	})
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	return rec
}
