package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/transync/transync/internal/client"
	"github.com/transync/transync/internal/client/config"
	"github.com/transync/transync/internal/utils"
	"github.com/transync/transync/internal/version"
)

const envPrefix = "TRANSYNC"

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
)

// configKeys are bound to TRANSYNC_* variables, nested keys with '_' (TRANSYNC_UPLOAD_MERGE).
var configKeys = []string{
	"api_key",
	"server_url",
	"project_dir",
	"concurrency",
	"timeout",
	"journal_path",
	"ignore_locales",
	"needed_locales",
	"ignore_files",
	"upload.merge",
	"upload.ignore_missing",
	"upload.label",
	"upload.low_priority",
	"upload.minor_changes",
	"upload.rename_others",
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "transync",
		Short:         "Synchronize local translation files with a transync project",
		Version:       version.Detailed(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logLevel.Set(slog.LevelDebug)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.SortFlags = false
	pf.StringP("config", "c", "", "config file (default: "+config.DefaultFileName+" in the project or a parent directory)")
	pf.StringP("project", "p", "", "project directory (default: directory of the config file)")
	pf.StringP("key", "k", "", "project api key")
	pf.StringP("server", "s", config.DefaultServerURL, "api server url")
	pf.IntP("concurrency", "j", config.DefaultConcurrency, "number of files synced in parallel")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newPullCmd(),
		newPushCmd(),
		newAddCmd(),
		newRmCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	slog.SetDefault(slog.New(newConsoleHandler(os.Stderr)))

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, red("Error:"), err)
		os.Exit(1)
	}
}

// loadConfig merges, from lowest to highest precedence, flag defaults, the config
// file, .env and TRANSYNC_* variables, and flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()

	start := cmd.Flag("project").Value.String()
	if start == "" {
		start = "."
	}

	envFile := filepath.Join(start, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("env read '%s': %w", envFile, err)
	}

	configPath := cmd.Flag("config").Value.String()
	if configPath == "" {
		if root, err := utils.FindProjectRoot(start, config.DefaultFileName); err == nil {
			configPath = filepath.Join(root, config.DefaultFileName)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			enoent := errors.Is(err, os.ErrNotExist)
			_, ok := err.(viper.ConfigFileNotFoundError)
			if !enoent && !ok {
				return nil, fmt.Errorf("config read '%s': %w", configPath, err)
			}
		}
	}

	// Bind flags to viper
	v.BindPFlag("api_key", cmd.Flag("key"))
	v.BindPFlag("server_url", cmd.Flag("server"))
	v.BindPFlag("project_dir", cmd.Flag("project"))
	v.BindPFlag("concurrency", cmd.Flag("concurrency"))

	// Set up environment variables
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		v.BindEnv(key)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}

	cfg.Path = v.ConfigFileUsed()
	if cfg.Path != "" {
		if _, err := os.Stat(cfg.Path); err != nil {
			cfg.Path = ""
		}
	}

	// a project_dir from the config file is relative to that file
	configDir := ""
	if cfg.Path != "" {
		configDir = filepath.Dir(cfg.Path)
	}
	switch {
	case cfg.ProjectDir == "" && configDir != "":
		cfg.ProjectDir = configDir
	case cfg.ProjectDir == "":
		cfg.ProjectDir = start
	case !filepath.IsAbs(cfg.ProjectDir) && !cmd.Flag("project").Changed && configDir != "":
		cfg.ProjectDir = filepath.Join(configDir, cfg.ProjectDir)
	}

	return &cfg, nil
}

// openClient loads the config and opens a locked client. The returned func
// closes it and detaches the project log file.
func openClient(cmd *cobra.Command) (*client.Client, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	c, err := client.New(cfg, client.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		return nil, nil, err
	}
	if err := c.Open(); err != nil {
		return nil, nil, err
	}

	detach, err := attachLogFile(filepath.Join(c.Workspace().LogsDir, "transync.log"))
	if err != nil {
		slog.Warn("log file", "error", err)
		detach = func() {}
	}

	return c, func() {
		if err := c.Close(); err != nil {
			slog.Warn("close", "error", err)
		}
		detach()
	}, nil
}

// projectPatterns rewrites command line paths, given relative to the working
// directory, as project relative patterns.
func projectPatterns(c *client.Client, args []string) []string {
	patterns := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			patterns = append(patterns, arg)
			continue
		}
		rel, err := c.Workspace().RelPath(abs)
		if err != nil {
			patterns = append(patterns, arg)
			continue
		}
		patterns = append(patterns, rel)
	}
	return patterns
}

func summaryErr(s *client.Summary, err error) error {
	if err != nil {
		return err
	}
	return s.Err()
}
