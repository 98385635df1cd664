package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TraceEntry records one improvement during an optimization run. Entries are
// serialized as JSON lines in trace.jsonl.
type TraceEntry struct {
	// Evaluation is the objective-call count at which the improvement
	// was observed
	Evaluation int `json:"evaluation"`

	// Cost is the best cost at this point
	Cost float64 `json:"cost"`

	// Timestamp records when this entry was written
	Timestamp time.Time `json:"timestamp"`

	// Params is the best parameter vector (optional, nil to save space)
	Params []float64 `json:"params,omitempty"`
}

// TraceWriter writes trace entries to a JSONL file.
// It uses buffered I/O and is safe for concurrent use.
type TraceWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string
}

// NewTraceWriter creates a trace writer for the given job at
// <baseDir>/fits/<jobID>/trace.jsonl. If appendMode is true, new entries are
// appended to an existing file instead of truncating it.
func NewTraceWriter(baseDir, jobID string, appendMode bool) (*TraceWriter, error) {
	fitDir := filepath.Join(baseDir, "fits", jobID)
	if err := os.MkdirAll(fitDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create fit directory: %w", err)
	}

	path := filepath.Join(fitDir, "trace.jsonl")

	var file *os.File
	var err error
	if appendMode {
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	} else {
		file, err = os.Create(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	return &TraceWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, 64*1024),
		path:   path,
	}, nil
}

// Write appends a trace entry. The entry is buffered until Flush or Close.
func (tw *TraceWriter) Write(entry TraceEntry) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize trace entry: %w", err)
	}
	if _, err := tw.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write trace entry: %w", err)
	}
	if err := tw.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write trace newline: %w", err)
	}
	return nil
}

// Flush forces buffered entries to disk.
func (tw *TraceWriter) Flush() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.writer.Flush()
}

// Close flushes and closes the underlying file.
func (tw *TraceWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.writer.Flush(); err != nil {
		tw.file.Close()
		return fmt.Errorf("failed to flush trace buffer: %w", err)
	}
	return tw.file.Close()
}

// Path returns the trace file location.
func (tw *TraceWriter) Path() string {
	return tw.path
}

// TraceReader reads trace entries back from a JSONL file.
type TraceReader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewTraceReader opens the trace file for the given job.
func NewTraceReader(baseDir, jobID string) (*TraceReader, error) {
	path := filepath.Join(baseDir, "fits", jobID, "trace.jsonl")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{JobID: jobID}
		}
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	return &TraceReader{
		file:    file,
		scanner: bufio.NewScanner(file),
	}, nil
}

// Next returns the next trace entry, or io.EOF when exhausted.
func (tr *TraceReader) Next() (*TraceEntry, error) {
	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read trace line: %w", err)
		}
		return nil, io.EOF
	}

	var entry TraceEntry
	if err := json.Unmarshal(tr.scanner.Bytes(), &entry); err != nil {
		return nil, fmt.Errorf("failed to parse trace entry: %w", err)
	}
	return &entry, nil
}

// ReadAll returns all remaining trace entries.
func (tr *TraceReader) ReadAll() ([]TraceEntry, error) {
	var entries []TraceEntry
	for {
		entry, err := tr.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
}

// Close closes the underlying file.
func (tr *TraceReader) Close() error {
	return tr.file.Close()
}
