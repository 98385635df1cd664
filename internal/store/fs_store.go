package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FSStore implements the Store interface with filesystem persistence.
// Results live in a directory structure: <baseDir>/fits/<jobID>/
//
// Thread-safety: relies on atomic file operations (rename) and does not
// require locks. Multiple goroutines can safely call methods concurrently.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a new filesystem-based store.
// The baseDir will be created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// fitDir returns the directory path for a given job ID.
func (fs *FSStore) fitDir(jobID string) string {
	return filepath.Join(fs.baseDir, "fits", jobID)
}

// resultPath returns the path to the result.json file for a job.
func (fs *FSStore) resultPath(jobID string) string {
	return filepath.Join(fs.fitDir(jobID), "result.json")
}

// SaveResult atomically saves a fit result using the temp file + rename
// pattern.
func (fs *FSStore) SaveResult(result *FitResult) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("invalid fit result: %w", err)
	}

	fitDir := fs.fitDir(result.JobID)
	if err := os.MkdirAll(fitDir, 0755); err != nil {
		return fmt.Errorf("failed to create fit directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize fit result: %w", err)
	}

	finalPath := fs.resultPath(result.JobID)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp result file: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename result file: %w", err)
	}

	slog.Debug("Fit result saved", "jobID", result.JobID, "path", finalPath)
	return nil
}

// LoadResult retrieves a stored fit result.
func (fs *FSStore) LoadResult(jobID string) (*FitResult, error) {
	if jobID == "" {
		return nil, fmt.Errorf("jobID cannot be empty")
	}

	data, err := os.ReadFile(fs.resultPath(jobID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{JobID: jobID}
		}
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var result FitResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to deserialize fit result: %w", err)
	}
	return &result, nil
}

// ListResults scans the fits directory and returns metadata for every stored
// result. Directories without a readable result.json are skipped with a
// warning rather than failing the whole listing.
func (fs *FSStore) ListResults() ([]ResultInfo, error) {
	fitsDir := filepath.Join(fs.baseDir, "fits")
	entries, err := os.ReadDir(fitsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan fits directory: %w", err)
	}

	var infos []ResultInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		jobID := entry.Name()
		result, err := fs.LoadResult(jobID)
		if err != nil {
			slog.Warn("Skipping unreadable fit result", "jobID", jobID, "error", err)
			continue
		}
		info := ResultInfo{
			JobID:     result.JobID,
			Model:     result.Config.Model,
			Estimator: result.Config.Estimator,
			BestCost:  result.BestCost,
			Timestamp: result.Timestamp,
		}
		if st, err := os.Stat(fs.resultPath(jobID)); err == nil {
			info.SizeBytes = st.Size()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// DeleteResult removes a stored result and its trace.
func (fs *FSStore) DeleteResult(jobID string) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}

	fitDir := fs.fitDir(jobID)
	if _, err := os.Stat(fitDir); os.IsNotExist(err) {
		return &NotFoundError{JobID: jobID}
	}
	if err := os.RemoveAll(fitDir); err != nil {
		return fmt.Errorf("failed to delete fit directory: %w", err)
	}

	slog.Debug("Fit result deleted", "jobID", jobID)
	return nil
}
