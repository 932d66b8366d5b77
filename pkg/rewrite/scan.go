package rewrite

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Candidate is a file under the job root that matches the filters and
// contains the old token.
type Candidate struct {
	Path string // absolute path
	Rel  string // slash-separated path relative to the job root
}

// Scan walks the job root up to MaxDepth and returns, in traversal order
// and without duplicates, every file that matches the file filters, does
// not match the exclude filters, and contains the old token as a literal
// case-sensitive substring. It also returns the number of files whose
// content was inspected. Scan never mutates anything.
func Scan(ctx context.Context, job *Job) ([]Candidate, int, error) {
	logger := zerolog.Ctx(ctx)

	tokens := job.scanTokens()

	var candidates []Candidate
	scanned := 0

	err := filepath.WalkDir(job.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn().Str("path", path).Err(walkErr).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(job.Root, path)
		if relErr != nil {
			return errors.Errorf("resolving relative path for %s: %w", path, relErr)
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if pathDepth(rel) >= job.MaxDepth {
				return fs.SkipDir
			}
			if excludesDir(job.ExcludeFilters, rel) {
				return fs.SkipDir
			}
			return nil
		}

		if !matchAny(job.FileFilters, rel) || matchAny(job.ExcludeFilters, rel) {
			return nil
		}

		scanned++
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn().Str("path", path).Err(readErr).Msg("skipping unreadable file")
			return nil
		}
		if containsAny(content, tokens) {
			candidates = append(candidates, Candidate{Path: path, Rel: rel})
		}
		return nil
	})
	if err != nil {
		return nil, scanned, errors.Errorf("scanning %s: %w", job.Root, err)
	}

	logger.Debug().
		Int("scanned", scanned).
		Int("candidates", len(candidates)).
		Msg("scan complete")
	return candidates, scanned, nil
}

// scanTokens returns the literal substrings whose presence makes a file a
// candidate. Scheme-paired jobs only match scheme-qualified occurrences.
func (j *Job) scanTokens() []string {
	if j.Kind == URL && j.ForceHTTPS {
		rules := j.Rules()
		tokens := make([]string, len(rules))
		for i, r := range rules {
			tokens[i] = r.From
		}
		return tokens
	}
	return []string{j.OldToken}
}

func containsAny(content []byte, tokens []string) bool {
	for _, t := range tokens {
		if bytes.Contains(content, []byte(t)) {
			return true
		}
	}
	return false
}

// pathDepth counts path segments: "wp-config.php" is 1, "a/b/c.php" is 3.
func pathDepth(rel string) int {
	return strings.Count(rel, "/") + 1
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// excludesDir reports whether a directory should be pruned. A pattern like
// "**/vendor/**" prunes the vendor directory itself so its subtree is never
// walked.
func excludesDir(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		dirPattern := strings.TrimSuffix(p, "/**")
		if dirPattern != p {
			if ok, err := doublestar.Match(dirPattern, rel); err == nil && ok {
				return true
			}
		}
	}
	return false
}
