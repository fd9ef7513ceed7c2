package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/charliek/slotview/internal/config"
	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/logging"
	"github.com/charliek/slotview/internal/source"
	"github.com/charliek/slotview/internal/tui"
	"github.com/charliek/slotview/internal/viewer"
)

// Keys read from SLOTVIEW_* environment variables
const (
	envConfig    = "config"
	envFollow    = "follow"
	envKeepBlank = "keep_blank"
	envDebugLog  = "debug_log"
	envLogLevel  = "log_level"
)

// runViewer resolves the configuration and runs the viewer on path
func (a *App) runViewer(cmd *cobra.Command, path string, f *flags) error {
	// Load .env before reading SLOTVIEW_* so it can set them
	envFile := f.envFile
	if envFile == "" {
		if _, err := os.Stat(constants.DefaultEnvFile); err == nil {
			envFile = constants.DefaultEnvFile
		}
	}
	if err := loadEnv(envFile); err != nil {
		return err
	}

	v := newEnv()

	cfg, err := resolveConfig(cmd, f, v)
	if err != nil {
		return err
	}

	// env_file from the config file applies when no --env-file was given
	if f.envFile == "" && cfg.EnvFile != "" {
		if err := loadEnv(cfg.EnvFile); err != nil {
			return err
		}
	}

	if err := applyOverrides(cmd, f, v, cfg); err != nil {
		return err
	}

	// Fail before the terminal is taken over
	if err := source.Check(path); err != nil {
		return err
	}

	logger, err := logging.New(cfg.DebugLog, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.Info("starting viewer",
		"path", path,
		"follow", cfg.Follow,
		"patterns", len(cfg.Patterns),
		"active_slot", int(cfg.ActiveSlot),
	)

	state, err := viewer.New(viewer.Options{
		Patterns:   cfg.Patterns,
		ActiveSlot: cfg.ActiveSlot,
		KeepBlank:  cfg.KeepBlank,
		Follow:     cfg.Follow,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	follower := source.NewFollower(path, source.FollowerConfig{
		Follow: cfg.Follow,
		Logger: logger,
	})

	err = a.run(cmd.Context(), state, follower, tui.Options{
		Path:           path,
		NoticeDuration: cfg.NoticeDuration,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("viewer stopped", "error", err)
		return err
	}

	logger.Info("viewer stopped")
	return nil
}

// newEnv creates the SLOTVIEW_* environment layer
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadEnv applies a .env file without overriding the process environment
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	env, err := config.LoadEnvFile(path)
	if err != nil {
		return err
	}
	_, err = config.ApplyEnv(env)
	return err
}

// resolveConfig loads the config file named by --config, SLOTVIEW_CONFIG or
// the first standard location that exists. No file means defaults.
func resolveConfig(cmd *cobra.Command, f *flags, v *viper.Viper) (*config.Config, error) {
	path := ""
	switch {
	case cmd.Flags().Changed("config"):
		path = f.configPath
	case v.IsSet(envConfig):
		path = v.GetString(envConfig)
	default:
		found, err := config.FindConfigFile()
		if err != nil {
			return config.Default(), nil
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// applyOverrides layers environment variables over the config file and
// flags over both, then validates the result
func applyOverrides(cmd *cobra.Command, f *flags, v *viper.Viper, cfg *config.Config) error {
	if v.IsSet(envFollow) {
		cfg.Follow = v.GetBool(envFollow)
	}
	if v.IsSet(envKeepBlank) {
		cfg.KeepBlank = v.GetBool(envKeepBlank)
	}
	if v.IsSet(envDebugLog) {
		cfg.DebugLog = v.GetString(envDebugLog)
	}
	if v.IsSet(envLogLevel) {
		cfg.LogLevel = strings.ToUpper(v.GetString(envLogLevel))
	}

	flagSet := cmd.Flags()
	if flagSet.Changed("follow") {
		cfg.Follow = f.follow
	}
	if flagSet.Changed("keep-blank") {
		cfg.KeepBlank = f.keepBlank
	}
	if flagSet.Changed("debug-log") {
		cfg.DebugLog = f.debugLog
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = strings.ToUpper(f.logLevel)
	}

	var errs []error
	for _, p := range f.patterns {
		slot, expr, err := config.ParsePatternFlag(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("--pattern: %w", err))
			continue
		}
		cfg.Patterns[slot] = expr
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return config.Validate(cfg)
}
