package services

import (
	"strings"
	"testing"

	"github.com/reelforge/reelforge/internal/models"
)

func TestRunLogger_AppendOrder(t *testing.T) {
	rl := NewRunLogger()
	rl.Append(models.LogCategoryDecision, models.PhaseAnalyze, "first")
	rl.Append(models.LogCategoryGeneration, models.PhaseGenerate, "second")
	rl.AppendAsset(models.LogCategoryEvaluation, models.PhaseEvaluate, "third", "asset-1")

	entries := rl.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" || entries[2].Message != "third" {
		t.Error("entries are not in append order")
	}
	if entries[2].AssetID != "asset-1" {
		t.Errorf("expected asset id on third entry, got %q", entries[2].AssetID)
	}
	for i, e := range entries {
		if e.ID == "" {
			t.Errorf("entry %d: missing id", i)
		}
		if e.Timestamp.IsZero() {
			t.Errorf("entry %d: missing timestamp", i)
		}
	}
}

func TestRunLogger_EntriesReturnsCopy(t *testing.T) {
	rl := NewRunLogger()
	rl.Append(models.LogCategoryDecision, models.PhaseAnalyze, "original")

	entries := rl.Entries()
	entries[0].Message = "mutated"

	if rl.Entries()[0].Message != "original" {
		t.Error("mutating the returned slice should not affect the logger")
	}
}

func TestRunLogger_SizeLimitTruncation(t *testing.T) {
	rl := NewRunLogger()

	big := strings.Repeat("x", 4096)
	// Enough oversized entries to cross the persistence limit
	for i := 0; i < 120; i++ {
		rl.Append(models.LogCategoryGeneration, models.PhaseGenerate, big)
	}

	limited := rl.EntriesWithSizeLimit()
	if len(limited) >= 120 {
		t.Fatalf("expected truncation, got all %d entries", len(limited))
	}

	last := limited[len(limited)-1]
	if !strings.Contains(last.Message, "truncated") {
		t.Errorf("expected a truncation notice as the final entry, got %q", last.Message)
	}
	if last.Category != models.LogCategoryError {
		t.Errorf("expected the truncation notice to be an error entry, got %s", last.Category)
	}

	// The full stream is still intact
	if len(rl.Entries()) != 120 {
		t.Errorf("expected the in-memory stream to keep all entries, got %d", len(rl.Entries()))
	}
}

func TestRunLogger_RestoreKeepsIdentity(t *testing.T) {
	rl := NewRunLogger()
	rl.restore(models.RunLogEntry{ID: "fixed-id", Message: "from snapshot"})
	rl.Append(models.LogCategoryDecision, models.PhaseAnalyze, "new entry")

	entries := rl.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "fixed-id" {
		t.Errorf("restored entry lost its id: %q", entries[0].ID)
	}
}
