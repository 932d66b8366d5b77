// Package rewrite implements the reference rewriter: scanning a site tree
// for occurrences of an old path or domain token, snapshotting affected
// files, and replacing every occurrence with a new token, in files and in
// the database.
//
// All matching is literal text, never regex, so tokens containing '.' or
// '/' cannot act as pattern syntax. Interrupted runs are recovered by
// re-running the job: a rewritten file no longer contains the old token and
// drops out of the candidate set.
package rewrite

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Kind selects the substitution rules derived from a token pair.
type Kind int

const (
	// Path rewrites a filesystem path, handling the trailing-slash variant.
	Path Kind = iota
	// URL rewrites a domain token, leaving schemes untouched unless the
	// job opts into scheme pairing.
	URL
)

func (k Kind) String() string {
	switch k {
	case Path:
		return "path"
	case URL:
		return "url"
	default:
		return "unknown"
	}
}

// ParseKind converts an operator-supplied kind flag value.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "path":
		return Path, nil
	case "url", "domain":
		return URL, nil
	default:
		return Path, errors.Errorf("unknown rewrite kind %q (want path or url)", s)
	}
}

// DefaultMaxDepth bounds tree traversal when the job does not set one.
const DefaultMaxDepth = 12

// DefaultFileFilters are the file name patterns considered for rewriting:
// configuration, markup, and code files.
var DefaultFileFilters = []string{
	"**/*.php",
	"**/*.html",
	"**/*.htm",
	"**/*.css",
	"**/*.js",
	"**/*.json",
	"**/*.ini",
	"**/*.txt",
	"**/.htaccess",
}

// DefaultExcludeFilters skip dependency trees, uploads, caches, and logs.
var DefaultExcludeFilters = []string{
	"**/vendor/**",
	"**/node_modules/**",
	"**/wp-content/cache/**",
	"**/wp-content/uploads/**",
	"**/*.log",
}

// Job describes a single rewrite pass over a site tree. A Job is built per
// invocation, executed once, and discarded with its Result.
type Job struct {
	OldToken       string
	NewToken       string
	Kind           Kind
	Root           string   // site tree to scan; must exist
	FileFilters    []string // glob patterns for files to consider
	ExcludeFilters []string // glob patterns for files and dirs to skip
	MaxDepth       int      // traversal depth bound, 0 means default
	BackupDir      string   // where pre-rewrite copies land

	// ForceHTTPS pairs schemes for URL jobs: both http:// and https://
	// occurrences of the old domain are rewritten to the https:// form of
	// the new one. This is the V1 import behavior.
	ForceHTTPS bool
}

// Validate checks the job preconditions and fills in defaults. Precondition
// violations are fatal: nothing has been mutated yet.
func (j *Job) Validate() error {
	if j.OldToken == "" {
		return errors.Errorf("old token is required")
	}
	if j.OldToken == j.NewToken {
		return errors.Errorf("old and new tokens are identical (%q)", j.OldToken)
	}
	if j.Root == "" {
		return errors.Errorf("root directory is required")
	}

	info, err := os.Stat(j.Root)
	if err != nil {
		return errors.Errorf("root directory %s: %w", j.Root, err)
	}
	if !info.IsDir() {
		return errors.Errorf("root %s is not a directory", j.Root)
	}
	j.Root = filepath.Clean(j.Root)

	if j.MaxDepth <= 0 {
		j.MaxDepth = DefaultMaxDepth
	}
	if len(j.FileFilters) == 0 {
		j.FileFilters = DefaultFileFilters
	}
	if len(j.ExcludeFilters) == 0 {
		j.ExcludeFilters = DefaultExcludeFilters
	}
	if j.BackupDir == "" {
		j.BackupDir = filepath.Join(filepath.Dir(j.Root), "wpmigrate-backups")
	}

	return nil
}

// Rule is a single literal substitution.
type Rule struct {
	From string
	To   string
}

// Rules expands the token pair into ordered substitutions.
//
// Path jobs rewrite the slash-suffixed form first: applying the bare
// substitution first would corrupt directory-boundary references like
// old/wp-content. URL jobs apply one literal substitution of the domain,
// so each occurrence keeps its original scheme, unless ForceHTTPS pairs
// both schemes onto https.
func (j *Job) Rules() []Rule {
	if j.Kind == URL {
		if j.ForceHTTPS {
			from := stripScheme(j.OldToken)
			to := stripScheme(j.NewToken)
			return []Rule{
				{From: "http://" + from, To: "https://" + to},
				{From: "https://" + from, To: "https://" + to},
			}
		}
		return []Rule{{From: j.OldToken, To: j.NewToken}}
	}

	from := strings.TrimSuffix(j.OldToken, "/")
	to := strings.TrimSuffix(j.NewToken, "/")
	return []Rule{
		{From: from + "/", To: to + "/"},
		{From: from, To: to},
	}
}

func stripScheme(token string) string {
	token = strings.TrimPrefix(token, "http://")
	token = strings.TrimPrefix(token, "https://")
	return token
}
