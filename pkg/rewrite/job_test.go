package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_Validate(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name      string
		job       Job
		wantError string
	}{
		{
			name: "valid_job",
			job:  Job{OldToken: "/var/www/old", NewToken: "/var/www/new", Root: root},
		},
		{
			name:      "empty_old_token",
			job:       Job{OldToken: "", NewToken: "x", Root: root},
			wantError: "old token is required",
		},
		{
			name:      "identical_tokens",
			job:       Job{OldToken: "same", NewToken: "same", Root: root},
			wantError: "identical",
		},
		{
			name:      "missing_root",
			job:       Job{OldToken: "a", NewToken: "b", Root: root + "/does-not-exist"},
			wantError: "root directory",
		},
		{
			name:      "no_root",
			job:       Job{OldToken: "a", NewToken: "b"},
			wantError: "root directory is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultMaxDepth, tt.job.MaxDepth)
			assert.Equal(t, DefaultFileFilters, tt.job.FileFilters)
			assert.Equal(t, DefaultExcludeFilters, tt.job.ExcludeFilters)
			assert.NotEmpty(t, tt.job.BackupDir)
		})
	}
}

func TestJob_Rules(t *testing.T) {
	tests := []struct {
		name string
		job  Job
		want []Rule
	}{
		{
			name: "path_slash_variant_first",
			job:  Job{OldToken: "/var/www/old", NewToken: "/var/www/new", Kind: Path},
			want: []Rule{
				{From: "/var/www/old/", To: "/var/www/new/"},
				{From: "/var/www/old", To: "/var/www/new"},
			},
		},
		{
			name: "path_trailing_slash_normalized",
			job:  Job{OldToken: "/srv/a/", NewToken: "/srv/b/", Kind: Path},
			want: []Rule{
				{From: "/srv/a/", To: "/srv/b/"},
				{From: "/srv/a", To: "/srv/b"},
			},
		},
		{
			name: "url_single_literal_substitution",
			job:  Job{OldToken: "old.example.com", NewToken: "new.example.com", Kind: URL},
			want: []Rule{
				{From: "old.example.com", To: "new.example.com"},
			},
		},
		{
			name: "url_force_https_pairs_schemes",
			job:  Job{OldToken: "old.example.com", NewToken: "new.example.com", Kind: URL, ForceHTTPS: true},
			want: []Rule{
				{From: "http://old.example.com", To: "https://new.example.com"},
				{From: "https://old.example.com", To: "https://new.example.com"},
			},
		},
		{
			name: "url_force_https_strips_given_schemes",
			job:  Job{OldToken: "http://old.example.com", NewToken: "https://new.example.com", Kind: URL, ForceHTTPS: true},
			want: []Rule{
				{From: "http://old.example.com", To: "https://new.example.com"},
				{From: "https://old.example.com", To: "https://new.example.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.job.Rules())
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("path")
	require.NoError(t, err)
	assert.Equal(t, Path, k)

	k, err = ParseKind("URL")
	require.NoError(t, err)
	assert.Equal(t, URL, k)

	_, err = ParseKind("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rewrite kind")
}
