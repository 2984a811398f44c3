package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/cpmod/pkg/copier"
	"github.com/lucas-albers-lz4/cpmod/pkg/debug"
	"github.com/lucas-albers-lz4/cpmod/pkg/exitcodes"
	"github.com/lucas-albers-lz4/cpmod/pkg/perm"
	"github.com/lucas-albers-lz4/cpmod/pkg/report"
)

const (
	configName  = ".cpmod"
	envPrefix   = "CPMOD"
	defaultMask = perm.All
)

// settings is the validated form of flags, environment and config file.
type settings struct {
	opts    copier.Options
	verbose bool
	format  report.Format
}

// initConfig wires v to the command's flags, CPMOD_* environment variables
// and the optional config file. Flags set on the command line win over the
// environment, which wins over the file.
func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	v.SetFs(AppFs)
	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, cmd.Flags(), cmd.PersistentFlags()); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitInternalError, Err: err}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			debug.Printf("No config file found: %v", err)
			return nil
		}
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to read config file: %w", err),
		}
	}
	debug.Printf("Using config file: %s", v.ConfigFileUsed())
	return nil
}

func bindFlags(v *viper.Viper, sets ...*pflag.FlagSet) error {
	for _, fs := range sets {
		if err := v.BindPFlags(fs); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	return nil
}

// loadSettings validates the merged configuration.
func loadSettings(v *viper.Viper) (*settings, error) {
	src, tar := v.GetString("src"), v.GetString("tar")
	if src == "" || tar == "" {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredFlag,
			Err:  errors.New("both --src and --tar are required"),
		}
	}

	source, err := perm.ParseClass(src)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInvalidClass, Err: fmt.Errorf("invalid --src: %w", err)}
	}
	target, err := perm.ParseClass(tar)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInvalidClass, Err: fmt.Errorf("invalid --tar: %w", err)}
	}

	mask, err := perm.ParseMask(v.GetInt("mask"))
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInvalidMask, Err: fmt.Errorf("invalid --mask: %w", err)}
	}

	format, err := report.ParseFormat(v.GetString("output"))
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInvalidOutputFormat, Err: err}
	}

	return &settings{
		opts: copier.Options{
			Source:         source,
			Target:         target,
			Mask:           mask,
			Recursive:      v.GetBool("recursive"),
			FollowSymlinks: v.GetBool("follow-symlinks"),
		},
		verbose: v.GetBool("verbose"),
		format:  format,
	}, nil
}
