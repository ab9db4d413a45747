package timeline

import (
	"context"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"tagprostats.dev/engine/internal/core"
)

// ArchiveSource is the bulk matches/maps index, loaded once at process
// startup as a read-only process-wide resource. The parsed index is
// persisted to a
// BadgerDB directory so a process restart doesn't re-parse a
// multi-megabyte archive file — "re-loads are not required" holds across
// restarts, not just within one.
type ArchiveSource struct {
	cache *badger.DB
}

// OpenArchiveSource opens (creating if absent) the Badger store at dir.
// If the store is empty, it parses the bulk archive file at sourcePath
// into it; a store already populated from a previous run is reused as-is
// and sourcePath is never re-read.
func OpenArchiveSource(dir, sourcePath string) (*ArchiveSource, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive cache at %s: %w", dir, err)
	}

	src := &ArchiveSource{cache: db}
	populated, err := src.populated()
	if err != nil {
		db.Close()
		return nil, err
	}
	if !populated {
		if err := src.load(sourcePath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return src, nil
}

func (s *ArchiveSource) populated() (bool, error) {
	found := false
	err := s.cache.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		it.Rewind()
		found = it.Valid()
		return nil
	})
	return found, err
}

func (s *ArchiveSource) load(sourcePath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read archive %s: %w", sourcePath, err)
	}
	var raw rawArchive
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode archive %s: %w", sourcePath, err)
	}

	wb := s.cache.NewWriteBatch()
	defer wb.Cancel()
	for matchID, rm := range raw {
		tl := buildTimeline(matchID, rm)
		encoded, err := json.Marshal(tl)
		if err != nil {
			return fmt.Errorf("encode timeline %s: %w", matchID, err)
		}
		if err := wb.Set([]byte(matchID), encoded); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Timeline returns the parsed Timeline for matchID. A matchID absent from
// the archive yields a *core.MissingTimelineError, which Combined treats
// as "try the live fetch next" rather than a fatal condition.
func (s *ArchiveSource) Timeline(ctx context.Context, matchID string) (core.Timeline, error) {
	var tl core.Timeline
	err := s.cache.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(matchID))
		if err == badger.ErrKeyNotFound {
			return &core.MissingTimelineError{GameID: matchID}
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tl)
		})
	})
	if err != nil {
		return core.Timeline{}, err
	}
	return tl, nil
}

// Close releases the archive's cache handle.
func (s *ArchiveSource) Close() error {
	return s.cache.Close()
}
