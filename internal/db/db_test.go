package db_test

import (
	"context"
	"testing"

	"tagprostats.dev/engine/internal/db"
	"tagprostats.dev/engine/internal/testutils"
)

func TestMigrateAppliesMigrationsExactlyOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers-based test in short mode")
	}

	ctx := context.Background()
	container, err := testutils.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer container.Terminate(ctx)

	conn, err := db.Connect(container.ConnStr)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := conn.Migrate(ctx); err != nil {
		t.Fatalf("second migrate should be a no-op, got: %v", err)
	}

	var count int
	row := conn.QueryRowContext(ctx, `SELECT count(*) FROM team_seasons`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("team_seasons table should exist after migration: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty team_seasons table, got %d rows", count)
	}
}

func TestRecordAndListDatasetRefreshes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers-based test in short mode")
	}

	ctx := context.Background()
	container, err := testutils.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer container.Terminate(ctx)

	conn, err := db.Connect(container.ConnStr)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := conn.RecordDatasetRefresh(ctx, "archive", 1500); err != nil {
		t.Fatalf("record dataset refresh: %v", err)
	}
	if err := conn.RecordDatasetRefresh(ctx, "archive", 1510); err != nil {
		t.Fatalf("re-record dataset refresh: %v", err)
	}

	refreshes, err := conn.DatasetRefreshes(ctx)
	if err != nil {
		t.Fatalf("dataset refreshes: %v", err)
	}
	got, ok := refreshes["archive"]
	if !ok {
		t.Fatal("expected an \"archive\" dataset refresh entry")
	}
	if got.RowCount != 1510 {
		t.Fatalf("expected the latest row count to win, got %d", got.RowCount)
	}
}
