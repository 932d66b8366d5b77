package rewrite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// BackupRecord notes where a candidate's pre-rewrite content was copied.
// Backups are never deleted automatically; the operator manages retention.
type BackupRecord struct {
	OriginalPath string
	BackupPath   string
	Timestamp    time.Time
}

// Result reports what a rewrite pass did.
type Result struct {
	FilesScanned  int
	FilesModified int
	ModifiedPaths []string // traversal order
	Backups       []BackupRecord
	Warnings      []string // per-file failures, skipped but not fatal
}

// RewriteFiles applies the job's substitution rules to each candidate.
// Every file is copied verbatim into the backup directory before it is
// touched; a candidate whose backup or write fails is skipped and recorded
// as a warning, and the pass continues. The pass is not atomic across
// files: a crash mid-run leaves a partially rewritten set, recoverable from
// the backups or by re-running the job.
//
// Backups for one run share a timestamped directory and are keyed by the
// file's full path relative to the job root, so same-named files in
// different subdirectories cannot clobber each other's backup.
func RewriteFiles(ctx context.Context, job *Job, candidates []Candidate, scanned int) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	result := &Result{FilesScanned: scanned}
	if len(candidates) == 0 {
		return result, nil
	}

	now := time.Now()
	runDir := filepath.Join(job.BackupDir, now.Format("20060102-150405"))
	rules := job.Rules()

	for _, cand := range candidates {
		original, err := os.ReadFile(cand.Path)
		if err != nil {
			result.warnf(logger, "reading %s: %v", cand.Path, err)
			continue
		}

		modified := applyRules(original, rules)
		if string(modified) == string(original) {
			continue
		}

		backupPath := filepath.Join(runDir, filepath.FromSlash(cand.Rel))
		if err := writeBackup(backupPath, original, cand.Path); err != nil {
			result.warnf(logger, "backing up %s: %v", cand.Path, err)
			continue
		}
		result.Backups = append(result.Backups, BackupRecord{
			OriginalPath: cand.Path,
			BackupPath:   backupPath,
			Timestamp:    now,
		})

		if err := writeAtomic(cand.Path, modified); err != nil {
			result.warnf(logger, "writing %s: %v", cand.Path, err)
			continue
		}

		result.FilesModified++
		result.ModifiedPaths = append(result.ModifiedPaths, cand.Path)
		logger.Debug().Str("path", cand.Path).Msg("rewrote file")
	}

	return result, nil
}

func (r *Result) warnf(logger *zerolog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	logger.Warn().Msg(msg)
}

// applyRules performs the ordered literal substitutions. strings.ReplaceAll
// treats both sides as plain text, so no escaping is needed.
func applyRules(content []byte, rules []Rule) []byte {
	current := string(content)
	for _, rule := range rules {
		if rule.From == "" {
			continue
		}
		current = strings.ReplaceAll(current, rule.From, rule.To)
	}
	return []byte(current)
}

// writeBackup copies the original content under the backup directory,
// preserving the source file's mode.
func writeBackup(backupPath string, content []byte, originalPath string) error {
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return errors.Errorf("creating backup directory: %w", err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(originalPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(backupPath, content, mode); err != nil {
		return errors.Errorf("writing backup: %w", err)
	}
	return nil
}

// writeAtomic replaces path via a temp file and rename so a crash cannot
// leave a half-written file.
func writeAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stating original: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("setting mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("replacing original: %w", err)
	}
	return nil
}

// SiteManager is the slice of the site administration CLI the database
// pass delegates to.
type SiteManager interface {
	// SearchReplace performs a bulk literal replacement across the
	// database. allTables widens the pass beyond the core tables.
	SearchReplace(ctx context.Context, oldToken, newToken string, allTables bool) error
}

// RewriteDatabase runs the job's rules through the site manager's bulk
// search-replace. Failures come back as warnings, not errors: some tables
// legitimately reject the replacement on datatype grounds, and the
// documented recovery is a follow-up manual pass. File-level changes are
// never rolled back.
func RewriteDatabase(ctx context.Context, sm SiteManager, job *Job) []string {
	logger := zerolog.Ctx(ctx)

	var warnings []string
	for _, rule := range job.Rules() {
		logger.Info().Str("from", rule.From).Str("to", rule.To).Msg("database search-replace")
		if err := sm.SearchReplace(ctx, rule.From, rule.To, true); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("database search-replace %q -> %q: %v", rule.From, rule.To, err))
		}
	}
	return warnings
}
