// Package main implements the cpmod command-line tool. cpmod copies the
// read/write/execute bits of one subject class (owner, group or other) onto
// another subject class of the same files, optionally walking directories.
//
// Only entries owned by the invoking user are modified. Every entry is
// reported; the exit code tells whether any of them failed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/cpmod/pkg/copier"
	"github.com/lucas-albers-lz4/cpmod/pkg/debug"
	"github.com/lucas-albers-lz4/cpmod/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/cpmod/pkg/log"
	"github.com/lucas-albers-lz4/cpmod/pkg/report"
	"github.com/lucas-albers-lz4/cpmod/pkg/version"
)

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a function to restore it.
// This is primarily used for testing.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

// newCopier builds the copier used by the root command. Tests replace it to
// inject an ownership lookup for in-memory filesystems.
var newCopier = func(fsys afero.Fs, opts copier.Options) *copier.Copier {
	return copier.New(fsys, opts)
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "cpmod [flags] FILE...",
		Short: "Copy permission bits from one subject class to another",
		Long: `cpmod copies the read, write and execute bits of one subject class
(u = owner, g = group, o = other) onto another subject class of the same file.

Only files owned by the invoking user are changed; anything else is skipped.
With --recursive, directories are walked depth-first and every entry below
them is processed the same way. A failure on one entry never stops the others.`,
		Example: `  # Give the group the same rights as the owner
  cpmod -s u -t g script.sh

  # Make "other" match the group, read and execute bits only, for a whole tree
  cpmod -s g -t o -m 5 -R ./public

  # Machine-readable report of every entry
  cpmod -s u -t g -R -v -o json ./build`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &exitcodes.ExitCodeError{
					Code: exitcodes.ExitMissingRequiredFlag,
					Err:  errors.New("at least one FILE is required"),
				}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cmd, v, cfgFile); err != nil {
				return err
			}
			setupLogging(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			return runCopy(cmd, s, args)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitInputConfigurationError, Err: err}
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cpmod.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-level", "warn", "set log level (debug, info, warn, error)")

	cmd.Flags().StringP("src", "s", "", "subject class to copy from: u, g or o (required)")
	cmd.Flags().StringP("tar", "t", "", "subject class to copy to: u, g or o (required)")
	cmd.Flags().IntP("mask", "m", int(defaultMask), "octal digit 0-7 selecting which of r(4), w(2), x(1) are copied")
	cmd.Flags().BoolP("recursive", "R", false, "process directories recursively")
	cmd.Flags().BoolP("follow-symlinks", "L", false, "follow symbolic links instead of skipping them")
	cmd.Flags().BoolP("verbose", "v", false, "report every entry, including unchanged and skipped ones")
	cmd.Flags().StringP("output", "o", string(report.FormatText), "report format: text, json or yaml")

	return cmd
}

// setupLogging applies --debug, CPMOD_DEBUG and --log-level.
func setupLogging(v *viper.Viper) {
	debugEnabled := v.GetBool("debug")
	debug.Init(debugEnabled)

	level := log.LevelWarn
	if debugEnabled || debug.IsEnabled {
		level = log.LevelDebug
	} else if logLevelStr := v.GetString("log-level"); logLevelStr != "" {
		parsedLevel, err := log.ParseLevel(logLevelStr)
		if err != nil {
			log.Warnf("Invalid log level specified: '%s'. Using default: %s. Error: %v", logLevelStr, level, err)
		} else {
			level = parsedLevel
		}
	}
	log.SetLevel(level)
	debug.Printf("Effective log level set to %s", level)
}

func runCopy(cmd *cobra.Command, s *settings, paths []string) error {
	debug.FunctionEnter("runCopy")
	defer debug.FunctionExit("runCopy")
	debug.DumpValue("options", s.opts)

	c := newCopier(AppFs, s.opts)
	rep, walkErr := c.Copy(cmd.Context(), paths...)

	if err := report.Write(cmd.OutOrStdout(), rep, s.format, s.verbose); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
	}
	if walkErr != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitGeneralRuntimeError, Err: walkErr}
	}

	total, failed := len(rep.Results), rep.Count(copier.Failed)
	log.Info("Copy finished", "entries", total, "changed", rep.Count(copier.Changed), "failed", failed)
	if code := exitcodes.ForResults(total, failed); code != exitcodes.ExitSuccess {
		log.Debug("Entry failures", "error", rep.Err())
		return &exitcodes.ExitCodeError{
			Code: code,
			Err:  fmt.Errorf("%d of %d entries failed", failed, total),
		}
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	return exitCode(cmd, err)
}

// exitCode prints err, if any, and maps it to an exit code.
func exitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return exitcodes.ExitSuccess
	}
	code, ok := exitcodes.IsExitCodeError(err)
	if !ok {
		code = exitcodes.ExitGeneralRuntimeError
	}
	var exitErr *exitcodes.ExitCodeError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		err = exitErr.Err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "cpmod: %v\n", err)
	return code
}
