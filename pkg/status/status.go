// Package status prints operator-facing progress for migration steps:
// step banners, per-file lines, warnings, and final counts. Structured
// logging happens separately through zerolog; this package is the human
// channel.
package status

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"
)

// Reporter writes colored status lines to the operator console.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
	in  io.Reader

	stepColor    *color.Color
	successColor *color.Color
	warnColor    *color.Color
	errorColor   *color.Color
}

// New creates a Reporter writing to out and reading confirmations from in.
func New(out io.Writer, in io.Reader) *Reporter {
	return &Reporter{
		out:          out,
		in:           in,
		stepColor:    color.New(color.Bold),
		successColor: color.New(color.FgGreen),
		warnColor:    color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed),
	}
}

// Step prints a step banner.
func (r *Reporter) Step(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.stepColor.Sprintf("==> %s", name))
}

// FileUpdated prints the per-file modification line.
func (r *Reporter) FileUpdated(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s Updated path in: %s\n", r.successColor.Sprint("✓"), path)
}

// Success prints a green completion line.
func (r *Reporter) Success(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.successColor.Sprintf("✓ "+format, args...))
}

// Warn prints a yellow warning line. Warnings never stop a run.
func (r *Reporter) Warn(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.warnColor.Sprintf("! "+format, args...))
}

// Error prints a red error line.
func (r *Reporter) Error(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.errorColor.Sprintf("✗ "+format, args...))
}

// Counts prints the final modification count line.
func (r *Reporter) Counts(modified, scanned int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Modified %d of %d scanned files\n", modified, scanned)
}

// Confirm asks the operator a yes/no question and returns their answer.
// Anything other than y/yes is a decline.
func (r *Reporter) Confirm(prompt string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(r.in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
