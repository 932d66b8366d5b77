package status

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter(in string) (*Reporter, *bytes.Buffer) {
	color.NoColor = true
	out := &bytes.Buffer{}
	return New(out, strings.NewReader(in)), out
}

func TestReporter_Lines(t *testing.T) {
	r, out := newTestReporter("")

	r.Step("Rewriting paths")
	r.FileUpdated("/var/www/site/wp-config.php")
	r.Warn("backing up %s: permission denied", "a.php")
	r.Counts(3, 17)

	got := out.String()
	assert.Contains(t, got, "==> Rewriting paths")
	assert.Contains(t, got, "Updated path in: /var/www/site/wp-config.php")
	assert.Contains(t, got, "! backing up a.php: permission denied")
	assert.Contains(t, got, "Modified 3 of 17 scanned files")
}

func TestReporter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes_word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty_is_decline", input: "\n", want: false},
		{name: "eof_is_decline", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestReporter(tt.input)
			got, err := r.Confirm("Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
