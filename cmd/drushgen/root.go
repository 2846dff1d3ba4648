package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/terassyi/drushgen/internal/config"
	"github.com/terassyi/drushgen/internal/installer"
	"github.com/terassyi/drushgen/internal/ui"
)

// logLevel is shared by the default CLI log handler so the log-level
// setting can take effect after the configuration file is read.
var logLevel = &slog.LevelVar{}

// frontend turns flags and an optional configuration file into a
// configured Installer.
type frontend struct {
	configFile string
	baseDir    string

	// attrs are frontend-level values without a flag. They rank below the
	// configuration file and above the built-in defaults.
	attrs config.Overrides

	installerOpts []installer.Option
}

func newRootCmd(opts ...installer.Option) *cobra.Command {
	f := &frontend{installerOpts: opts}

	cmd := &cobra.Command{
		Use:   "drushgen",
		Short: "Install drush and its commands into a project directory",
		Long: `drushgen installs drush and drush command packages under a project
base directory and generates a wrapper script that runs drush with the
project's web root, command search path, PHP binary and site URI.

Settings are read from the [drush] section of the configuration file.
Only the base directory can also be given on the command line.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&f.configFile, "config-file", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&f.baseDir, "base-dir", "", "Project base directory (overrides base-dir in the configuration file)")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// buildConfig merges built-in defaults, frontend attributes, the
// configuration file and the --base-dir flag, in increasing precedence.
func (f *frontend) buildConfig() (*config.Config, error) {
	var fileLayer config.Overrides
	if f.configFile != "" {
		var err error
		if fileLayer, err = config.LoadFile(f.configFile); err != nil {
			return nil, err
		}
	}
	flagLayer := config.Overrides{BaseDir: f.baseDir}

	return config.Merge(config.Default(), f.attrs, fileLayer, flagLayer), nil
}

func (f *frontend) run(cmd *cobra.Command) error {
	cfg, err := f.buildConfig()
	if err != nil {
		return err
	}
	logLevel.Set(ui.ParseLogLevel(cfg.LogLevel))

	opts := []installer.Option{installer.WithLogger(slog.Default())}

	var progress *ui.DownloadProgress
	if cfg.FetchMethod == config.FetchBuiltin {
		w := cmd.ErrOrStderr()
		progress = ui.NewDownloadProgress(w, w == os.Stderr && ui.IsTerminal(os.Stderr))
		opts = append(opts, installer.WithProgress(progress))
	}

	inst := installer.New(cfg, append(opts, f.installerOpts...)...)
	err = inst.Run(cmd.Context())
	if progress != nil {
		progress.Wait()
	}
	if err != nil {
		return err
	}

	ui.PrintCreatedPaths(cmd.OutOrStdout(), inst.CreatedPaths())
	return nil
}
