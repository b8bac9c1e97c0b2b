package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/BerylCAtieno/legalease/internal/db"
)

func TestAuditRepositoryRecordAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "ledger.db")

	database, err := db.OpenAuditDB(path)
	if err != nil {
		t.Fatalf("OpenAuditDB: %v", err)
	}
	defer database.Close()

	// A second migration run is a no-op.
	if err := db.RunMigrations(path); err != nil {
		t.Fatalf("RunMigrations again: %v", err)
	}

	repo := NewAuditRepository(database)
	ctx := context.Background()
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	events := []*AnalysisEvent{
		{ID: "a", CreatedAt: base, FileName: "lease.txt", MimeType: "text/plain", FileSize: 22, TextLength: 22, AIProvider: "mock", Outcome: OutcomeSucceeded, DurationMS: 3},
		{ID: "b", CreatedAt: base.Add(time.Minute), FileName: "scan.pdf", MimeType: "application/pdf", FileSize: 1024, Outcome: OutcomeFailed, ErrorCode: "EmptyExtraction"},
	}
	for _, e := range events {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.ID, err)
		}
	}

	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRecent returned %d events, want 2", len(got))
	}
	if got[0].ID != "b" || got[0].ErrorCode != "EmptyExtraction" || got[0].Outcome != OutcomeFailed {
		t.Errorf("newest event = %+v", got[0])
	}
	if got[1].FileName != "lease.txt" || got[1].FileSize != 22 || got[1].AIProvider != "mock" {
		t.Errorf("oldest event = %+v", got[1])
	}
}
