package timeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tagprostats.dev/engine/internal/core"
)

const sampleArchive = `{
  "12345": {
    "map": {"name": "Boombox", "redFlag": [10, 20], "blueFlag": [30, 40]},
    "players": {
      "zeta": {
        "events": [
          {"tick": 0, "type": "Join", "team": "Red"},
          {"tick": 100, "type": "Grab"},
          {"tick": 200, "type": "Capture"}
        ],
        "splats": []
      },
      "alpha": {
        "events": [
          {"tick": 0, "type": "Join", "team": "Blue"},
          {"tick": 100, "type": "Tag"}
        ],
        "splats": [{"tick": 150, "x": 5, "y": 6}]
      }
    }
  }
}`

func writeSampleArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.json")
	if err := os.WriteFile(path, []byte(sampleArchive), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestArchiveSourceLoadsAndCaches(t *testing.T) {
	path := writeSampleArchive(t)
	cacheDir := t.TempDir()

	src, err := OpenArchiveSource(cacheDir, path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	tl, err := src.Timeline(context.Background(), "12345")
	if err != nil {
		t.Fatal(err)
	}
	if tl.GameID != "12345" {
		t.Fatalf("got GameID %q", tl.GameID)
	}
	if len(tl.ActorNames) != 2 {
		t.Fatalf("expected 2 actors, got %d", len(tl.ActorNames))
	}
	if len(tl.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(tl.Events))
	}
	if tl.Map.Name != "Boombox" {
		t.Fatalf("got map name %q", tl.Map.Name)
	}
}

func TestArchiveSourceMissingMatchReturnsMissingTimelineError(t *testing.T) {
	path := writeSampleArchive(t)
	cacheDir := t.TempDir()

	src, err := OpenArchiveSource(cacheDir, path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	_, err = src.Timeline(context.Background(), "nonexistent")
	if !core.IsMissingTimeline(err) {
		t.Fatalf("expected MissingTimelineError, got %v", err)
	}
}

func TestArchiveSourceReusesCacheWithoutReparsing(t *testing.T) {
	path := writeSampleArchive(t)
	cacheDir := t.TempDir()

	src1, err := OpenArchiveSource(cacheDir, path)
	if err != nil {
		t.Fatal(err)
	}
	src1.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	src2, err := OpenArchiveSource(cacheDir, path)
	if err != nil {
		t.Fatalf("reopening an already-populated cache should not need sourcePath: %v", err)
	}
	defer src2.Close()

	tl, err := src2.Timeline(context.Background(), "12345")
	if err != nil {
		t.Fatal(err)
	}
	if tl.GameID != "12345" {
		t.Fatalf("got GameID %q", tl.GameID)
	}
}

func TestBuildTimelineOrdersEventsByTickThenLabelThenActor(t *testing.T) {
	rm := rawMatch{
		Map: rawMap{Name: "m"},
		Players: map[string]rawPlayer{
			"b": {Events: []rawEvent{{Tick: 5, Type: "Tag"}}},
			"a": {Events: []rawEvent{{Tick: 5, Type: "Grab"}}},
		},
	}
	tl := buildTimeline("g1", rm)
	if len(tl.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(tl.Events))
	}
	// "Grab" < "Tag" alphabetically, so it sorts first despite actor "a"
	// (ActorID 0) and actor "b" (ActorID 1) both firing at tick 5.
	if tl.Events[0].Kind != core.EventGrab {
		t.Fatalf("expected Grab first, got %v", tl.Events[0].Kind)
	}
	if tl.Events[1].Kind != core.EventTag {
		t.Fatalf("expected Tag second, got %v", tl.Events[1].Kind)
	}
}
