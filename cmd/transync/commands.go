package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/transync/transync/internal/client"
	"github.com/transync/transync/internal/client/config"
	"github.com/transync/transync/internal/filesync"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull [paths...]",
		Short: "Fetch target files from the project",
		Long: `Fetch target files from the project. A file is fetched when it is missing
locally or its checksum differs from the one listed by the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			force, _ := cmd.Flags().GetBool("force")
			all, _ := cmd.Flags().GetBool("all")
			locales, _ := cmd.Flags().GetStringSlice("locale")

			return summaryErr(c.Pull(cmd.Context(), client.PullOptions{
				Patterns: projectPatterns(c, args),
				Locales:  locales,
				Force:    force,
				All:      all,
			}))
		},
	}
	cmd.Flags().BoolP("force", "f", false, "fetch even when checksums match")
	cmd.Flags().BoolP("all", "a", false, "also fetch master files")
	cmd.Flags().StringSliceP("locale", "l", nil, "only these target locales")
	return cmd
}

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push [paths...]",
		Short: "Upload master files, or target files with --target",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			force, _ := cmd.Flags().GetBool("force")
			target, _ := cmd.Flags().GetBool("target")
			all, _ := cmd.Flags().GetBool("all")
			locales, _ := cmd.Flags().GetStringSlice("locale")

			return summaryErr(c.Push(cmd.Context(), client.PushOptions{
				Patterns: projectPatterns(c, args),
				Locales:  locales,
				Force:    force,
				Target:   target,
				All:      all,
				Params:   uploadParams(cmd),
			}))
		},
	}
	cmd.Flags().BoolP("force", "f", false, "upload even when checksums match")
	cmd.Flags().BoolP("target", "t", false, "push target files instead of master files")
	cmd.Flags().BoolP("all", "a", false, "push master files, then target files")
	cmd.Flags().StringSliceP("locale", "l", nil, "only these target locales")
	cmd.Flags().Bool(filesync.ParamMerge, false, "merge with the existing segments")
	cmd.Flags().Bool("ignore-missing", false, "keep segments missing from the uploaded file")
	cmd.Flags().String(filesync.ParamLabel, "", "label new segments")
	cmd.Flags().Bool("low-priority", false, "process the upload with low priority")
	cmd.Flags().Bool("minor-changes", false, "keep existing translations of changed segments")
	cmd.Flags().Bool("rename-others", false, "rename the other locale files along with the master")
	return cmd
}

// uploadParams returns the upload flags set on the command line, which override
// the upload block of the config.
func uploadParams(cmd *cobra.Command) map[string]string {
	flags := map[string]string{
		filesync.ParamMerge: filesync.ParamMerge,
		"ignore-missing":    filesync.ParamIgnoreMissing,
		filesync.ParamLabel: filesync.ParamLabel,
		"low-priority":      filesync.ParamLowPriority,
		"minor-changes":     filesync.ParamMinorChanges,
		"rename-others":     filesync.ParamRenameOthers,
	}

	params := make(map[string]string)
	for flag, param := range flags {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		params[param] = f.Value.String()
	}
	return params
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <files...>",
		Short: "Create master files in the project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return summaryErr(c.Add(cmd.Context(), args, uploadParams(cmd)))
		},
	}
	cmd.Flags().Bool("low-priority", false, "process the upload with low priority")
	return cmd
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <files...>",
		Short: "Delete master files and their translations from the project",
		Long: `Delete master files and their translations from the project.
Local copies are left in place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return summaryErr(c.Remove(cmd.Context(), args))
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [paths...]",
		Short: "Compare local files with the project listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			_, err = c.Status(cmd.Context(), projectPatterns(c, args)...)
			return err
		},
	}
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <api_key>",
		Short: "Write a " + config.DefaultFileName + " for the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cmd.Flag("project").Value.String()
			if dir == "" {
				dir = "."
			}
			path := filepath.Join(dir, config.DefaultFileName)

			overwrite, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !overwrite {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := &config.Config{APIKey: args[0]}
			if server := cmd.Flag("server"); server.Changed {
				cfg.ServerURL = server.Value.String()
			}

			// validate a copy so the saved file keeps relative paths and no defaults
			check := *cfg
			check.ProjectDir = dir
			if err := check.Validate(); err != nil {
				return err
			}

			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), green("Wrote"), cyan(path))
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "overwrite an existing config")
	return cmd
}
