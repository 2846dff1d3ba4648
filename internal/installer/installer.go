// Package installer provisions drush, its command packages and the
// project-local wrapper script under a base directory.
package installer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/terassyi/drushgen/internal/checksum"
	"github.com/terassyi/drushgen/internal/config"
	dgErrors "github.com/terassyi/drushgen/internal/errors"
	"github.com/terassyi/drushgen/internal/installer/command"
	"github.com/terassyi/drushgen/internal/installer/download"
	"github.com/terassyi/drushgen/internal/installer/extract"
	"github.com/terassyi/drushgen/internal/installer/wrapper"
	"github.com/terassyi/drushgen/internal/lock"
	"github.com/terassyi/drushgen/internal/path"
)

// DefaultGenerator identifies drushgen in generated wrapper scripts.
const DefaultGenerator = "drushgen"

// Resource names used in errors and logs.
const (
	resourceDrush   = "drush"
	resourceCommand = "drush command"
	resourceWrapper = "drush wrapper"
)

// ProgressTracker reports per-download progress.
type ProgressTracker interface {
	Track(url string) (download.ProgressCallback, func(ok bool))
}

// Option configures an Installer.
type Option func(*Installer)

// WithFetcher overrides the fetcher selected by the fetch-method setting.
func WithFetcher(f download.Fetcher) Option {
	return func(i *Installer) {
		i.fetcher = f
	}
}

// WithExtractor overrides the extractor selected by the fetch-method setting.
func WithExtractor(e extract.ArchiveExtractor) Option {
	return func(i *Installer) {
		i.extractor = e
	}
}

// WithClock sets the time source for the wrapper generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(i *Installer) {
		i.now = now
	}
}

// WithGenerator sets the generator id written into the wrapper.
func WithGenerator(id string) Option {
	return func(i *Installer) {
		i.generator = id
	}
}

// WithProgress reports download progress to p.
func WithProgress(p ProgressTracker) Option {
	return func(i *Installer) {
		i.progress = p
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(i *Installer) {
		i.logger = l
	}
}

// Installer runs the install sequence against one configuration.
type Installer struct {
	cfg        *config.Config
	fetcher    download.Fetcher
	extractor  extract.ArchiveExtractor
	progress   ProgressTracker
	now        func() time.Time
	generator  string
	logger     *slog.Logger
	configured bool
	created    []string
}

// New creates an Installer for cfg. cfg is copied; Configure normalizes
// the copy.
func New(cfg *config.Config, opts ...Option) *Installer {
	i := &Installer{
		cfg:       cfg.Clone(),
		now:       time.Now,
		generator: DefaultGenerator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Config returns the installer's configuration, normalized once Configure
// has succeeded.
func (i *Installer) Config() *config.Config {
	return i.cfg
}

// CreatedPaths returns the directories and files recorded during the run,
// in order.
func (i *Installer) CreatedPaths() []string {
	return append([]string(nil), i.created...)
}

// Configure normalizes the configuration and selects the fetch and extract
// backends. Calling it again is a no-op.
func (i *Installer) Configure() error {
	if i.configured {
		return nil
	}
	if err := i.cfg.Normalize(); err != nil {
		return err
	}

	switch i.cfg.FetchMethod {
	case config.FetchBuiltin:
		if i.fetcher == nil {
			i.fetcher = download.NewHTTPFetcher(nil)
		}
		if i.extractor == nil {
			i.extractor = extract.NewBuiltin("")
		}
	default:
		runner := command.NewExecutor("").WithEnv("LC_ALL=C")
		if i.fetcher == nil {
			warnIfMissing(i.logger, "wget")
			i.fetcher = download.NewWgetFetcher(runner)
		}
		if i.extractor == nil {
			warnIfMissing(i.logger, "tar")
			i.extractor = extract.NewTarCommand(runner)
		}
	}

	i.logger.Debug("configured installer",
		"base_dir", i.cfg.BaseDir,
		"drush_dir", i.cfg.DrushDir,
		"fetch_method", i.cfg.FetchMethod)
	i.configured = true
	return nil
}

func warnIfMissing(logger *slog.Logger, tool string) {
	if !command.Available(tool) {
		logger.Warn("external tool not found in PATH", "tool", tool,
			"hint", "install it or set fetch-method = builtin")
	}
}

// IsDrushInstalled reports whether the drush directory exists. Nothing
// inside it is checked. A configuration that fails to normalize counts as
// not installed.
func (i *Installer) IsDrushInstalled() bool {
	if err := i.Configure(); err != nil {
		i.logger.Debug("cannot check drush installation", "error", err)
		return false
	}
	return path.Exists(i.cfg.DrushDir)
}

// InstallDrush downloads the drush archive into the scratch directory,
// verifies it when a checksum is configured, and unpacks it into the parent
// of the drush directory.
func (i *Installer) InstallDrush(ctx context.Context) error {
	if err := i.Configure(); err != nil {
		return err
	}
	cfg := i.cfg

	if err := path.EnsureDir(cfg.TmpDir); err != nil {
		return err
	}
	if err := path.EnsureDir(cfg.DrushDir); err != nil {
		return err
	}
	i.record(cfg.DrushDir)

	archive := cfg.DrushArchive()
	defer i.removeArchive(archive)

	i.logger.Info("installing drush", "url", cfg.DrushURL, "dir", cfg.DrushDir)

	if err := i.fetch(ctx, cfg.DrushURL, archive); err != nil {
		return dgErrors.NewInstallError(resourceDrush, "download", err).WithURL(cfg.DrushURL)
	}

	if cfg.DrushChecksum != "" {
		if err := checksum.Verify(archive, cfg.DrushChecksum); err != nil {
			var csErr *dgErrors.ChecksumError
			if errors.As(err, &csErr) {
				csErr.Resource = resourceDrush
				csErr.URL = cfg.DrushURL
				return csErr
			}
			return dgErrors.NewInstallError(resourceDrush, "verify", err).WithURL(cfg.DrushURL)
		}
		i.logger.Debug("checksum verified", "resource", resourceDrush)
	}

	if err := i.extractor.ExtractFile(ctx, archive, filepath.Dir(cfg.DrushDir)); err != nil {
		return dgErrors.NewInstallError(resourceDrush, "extract", err).WithURL(cfg.DrushURL)
	}

	i.logger.Info("drush installed", "dir", cfg.DrushDir)
	return nil
}

// InstallDrushCommands installs every configured command package into the
// local commands directory. Packages are always fetched again, even when
// already present.
func (i *Installer) InstallDrushCommands(ctx context.Context) error {
	if err := i.Configure(); err != nil {
		return err
	}

	if err := path.EnsureDir(i.cfg.DrushLocalCommands); err != nil {
		return err
	}
	i.record(i.cfg.DrushLocalCommands)

	for _, url := range i.cfg.DrushCommands {
		i.logger.Info("installing drush command", "url", url)
		if err := i.InstallDrushCommand(ctx, url); err != nil {
			return err
		}
		i.logger.Info("drush command installed", "url", url)
	}
	return nil
}

// InstallDrushCommand fetches one command package and unpacks it into the
// local commands directory, overwriting files in place.
func (i *Installer) InstallDrushCommand(ctx context.Context, url string) error {
	if err := i.Configure(); err != nil {
		return err
	}
	cfg := i.cfg

	if err := path.EnsureDir(cfg.TmpDir); err != nil {
		return err
	}

	archive := cfg.CommandArchive()
	defer i.removeArchive(archive)

	if err := i.fetch(ctx, url, archive); err != nil {
		return dgErrors.NewInstallError(resourceCommand, "download", err).WithURL(url)
	}
	if err := i.extractor.ExtractFile(ctx, archive, cfg.DrushLocalCommands); err != nil {
		return dgErrors.NewInstallError(resourceCommand, "extract", err).WithURL(url)
	}
	return nil
}

// GenerateDrushWrapper renders the wrapper script and writes it with mode
// 0755, replacing any previous wrapper.
func (i *Installer) GenerateDrushWrapper() error {
	if err := i.Configure(); err != nil {
		return err
	}
	cfg := i.cfg

	vars := wrapper.Vars{
		DrushCmd:       cfg.DrushExecutable(),
		WWWDir:         cfg.WWWDir,
		CommandDirs:    path.JoinSearchPath(cfg.DrushCommandDirs),
		PHP:            cfg.PHP,
		DrupalURI:      cfg.DrupalURI,
		Generator:      i.generator,
		GenerationTime: i.now(),
	}
	if err := wrapper.Generate(cfg.DrushWrapper, vars); err != nil {
		var fsErr *dgErrors.FilesystemError
		if errors.As(err, &fsErr) {
			return err
		}
		return dgErrors.NewInstallError(resourceWrapper, "generate", err)
	}
	i.record(cfg.DrushWrapper)

	i.logger.Info("generated drush wrapper", "path", cfg.DrushWrapper)
	return nil
}

// Run executes the full sequence: configure, install drush unless present,
// install every command package, and regenerate the wrapper. A run lock in
// the scratch directory keeps concurrent runs from interleaving.
func (i *Installer) Run(ctx context.Context) (err error) {
	if err := i.Configure(); err != nil {
		return err
	}

	if err := path.EnsureDir(i.cfg.TmpDir); err != nil {
		return err
	}
	runLock := lock.New(i.cfg.LockFile())
	if err := runLock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if releaseErr := runLock.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	if i.IsDrushInstalled() {
		i.logger.Info("Drush is already installed. Skipping installation", "dir", i.cfg.DrushDir)
	} else if err := i.InstallDrush(ctx); err != nil {
		return err
	}

	if err := i.InstallDrushCommands(ctx); err != nil {
		return err
	}

	return i.GenerateDrushWrapper()
}

func (i *Installer) fetch(ctx context.Context, url, dest string) error {
	if i.progress == nil {
		return i.fetcher.Fetch(ctx, url, dest)
	}

	cb, done := i.progress.Track(url)
	err := i.fetcher.Fetch(download.WithCallback(ctx, cb), url, dest)
	done(err == nil)
	return err
}

func (i *Installer) removeArchive(archive string) {
	if err := os.Remove(archive); err != nil && !os.IsNotExist(err) {
		i.logger.Warn("failed to remove archive", "path", archive, "error", err)
	}
}

func (i *Installer) record(p string) {
	i.created = append(i.created, p)
}
