package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTraceWriter_WriteAndRead(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "job-trace"

	writer, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	entries := []TraceEntry{
		{Evaluation: 1, Cost: 180.0, Timestamp: time.Now()},
		{Evaluation: 40, Cost: 91.5, Timestamp: time.Now()},
		{Evaluation: 220, Cost: 44.2, Timestamp: time.Now(), Params: []float64{0.1, 1.1}},
		{Evaluation: 900, Cost: 42.7, Timestamp: time.Now()},
	}
	for _, entry := range entries {
		if err := writer.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tracePath := filepath.Join(tmpDir, "fits", jobID, "trace.jsonl")
	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		t.Fatalf("Trace file not created: %s", tracePath)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	readEntries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(readEntries) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(readEntries))
	}
	for i, entry := range readEntries {
		if entry.Evaluation != entries[i].Evaluation {
			t.Errorf("Entry %d: expected evaluation %d, got %d", i, entries[i].Evaluation, entry.Evaluation)
		}
		if entry.Cost != entries[i].Cost {
			t.Errorf("Entry %d: expected cost %f, got %f", i, entries[i].Cost, entry.Cost)
		}
		if len(entry.Params) != len(entries[i].Params) {
			t.Errorf("Entry %d: expected %d params, got %d", i, len(entries[i].Params), len(entry.Params))
		}
	}
}

func TestTraceWriter_Append(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "job-append"

	writer, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	if err := writer.Write(TraceEntry{Evaluation: 1, Cost: 10, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	writer, err = NewTraceWriter(tmpDir, jobID, true)
	if err != nil {
		t.Fatalf("Failed to reopen trace writer: %v", err)
	}
	if err := writer.Write(TraceEntry{Evaluation: 2, Cost: 5, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to append entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	readEntries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(readEntries) != 2 {
		t.Fatalf("Expected 2 entries after append, got %d", len(readEntries))
	}
}

func TestTraceWriter_TruncateMode(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "job-trunc"

	writer, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	writer.Write(TraceEntry{Evaluation: 1, Cost: 10, Timestamp: time.Now()})
	writer.Close()

	writer, err = NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to reopen trace writer: %v", err)
	}
	writer.Write(TraceEntry{Evaluation: 7, Cost: 3, Timestamp: time.Now()})
	writer.Close()

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	entry, err := reader.Next()
	if err != nil {
		t.Fatalf("Failed to read entry: %v", err)
	}
	if entry.Evaluation != 7 {
		t.Errorf("Expected truncated file to start at evaluation 7, got %d", entry.Evaluation)
	}
	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Expected EOF after single entry, got %v", err)
	}
}

func TestTraceReaderNotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
