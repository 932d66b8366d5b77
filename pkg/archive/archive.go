// Package archive packages a site webroot for transfer and unpacks it on
// the target, shelling out to tar and rsync like the rest of the migration
// tooling the operator already has on the host.
package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
)

// Packer creates and extracts webroot archives.
type Packer struct {
	runner execx.Runner
}

// New creates a Packer.
func New(runner execx.Runner) *Packer {
	return &Packer{runner: runner}
}

// Create writes a gzipped tarball of root to outPath. excludes are tar
// --exclude patterns relative to root.
func (p *Packer) Create(ctx context.Context, root, outPath string, excludes []string) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("root", root).Str("out", outPath).Msg("creating archive")

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Errorf("creating archive directory: %w", err)
	}

	args := []string{"-czf", outPath, "-C", root}
	for _, e := range excludes {
		args = append(args, "--exclude="+e)
	}
	args = append(args, ".")

	if _, err := p.runner.Run(ctx, execx.Command{Name: "tar", Args: args}); err != nil {
		return errors.Errorf("creating archive of %s: %w", root, err)
	}
	return nil
}

// Extract unpacks a gzipped tarball into dest, creating it if needed.
func (p *Packer) Extract(ctx context.Context, archivePath, dest string) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("archive", archivePath).Str("dest", dest).Msg("extracting archive")

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	args := []string{"-xzf", archivePath, "-C", dest}
	if _, err := p.runner.Run(ctx, execx.Command{Name: "tar", Args: args}); err != nil {
		return errors.Errorf("extracting %s: %w", archivePath, err)
	}
	return nil
}

// Sync mirrors src into dest with rsync, preserving attributes. Trailing
// slashes on src are normalized so rsync copies contents, not the
// directory itself.
func (p *Packer) Sync(ctx context.Context, src, dest string, excludes []string) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("src", src).Str("dest", dest).Msg("syncing files")

	args := []string{"-a"}
	for _, e := range excludes {
		args = append(args, "--exclude="+e)
	}
	args = append(args, strings.TrimSuffix(src, "/")+"/", dest)

	if _, err := p.runner.Run(ctx, execx.Command{Name: "rsync", Args: args}); err != nil {
		return errors.Errorf("syncing %s to %s: %w", src, dest, err)
	}
	return nil
}
