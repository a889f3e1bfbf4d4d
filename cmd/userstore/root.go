package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/userstore"
	"github.com/aretw0/userstore/pkg/adapters/fs"
	"github.com/aretw0/userstore/pkg/core"
)

// baseDirEnv names the environment variable holding the default base directory.
const baseDirEnv = "BASE_DIR"

const usageLine = "userstore [read|write|list|watch|info] <entry>"

// app carries the persistent flags shared by every subcommand.
type app struct {
	verbose bool
	baseDir string
	format  string
	atomic  bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "userstore",
		Short: "A file-per-entry store for user records",
		Long: `userstore keeps one user record (name + age) per file inside a base directory.
Entry names must be a single path component; anything that could escape the
base directory is rejected before the filesystem is touched.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
			slog.SetDefault(logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return core.Reject(core.ErrUsage, "", usageLine)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&a.baseDir, "base-dir", "", "Base directory (defaults to $"+baseDirEnv+")")
	root.PersistentFlags().StringVar(&a.format, "format", "json", fmt.Sprintf("On-disk record format %v", fs.SerializerNames()))
	root.PersistentFlags().BoolVar(&a.atomic, "atomic", false, "Write records through a temp file and rename")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return core.Reject(core.ErrUsage, "", err.Error())
	})

	root.AddCommand(
		newReadCmd(a),
		newWriteCmd(a),
		newListCmd(a),
		newWatchCmd(a),
		newInfoCmd(a),
	)
	return root
}

// service opens the store named by --base-dir or $BASE_DIR.
func (a *app) service() (*userstore.Service, error) {
	base := a.baseDir
	if base == "" {
		base = os.Getenv(baseDirEnv)
	}
	if base == "" {
		return nil, errors.New("failed to read " + baseDirEnv + ": not set")
	}

	svc, err := userstore.New(base,
		userstore.WithSerializer(a.format),
		userstore.WithAtomicWrites(a.atomic),
		userstore.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data store: %w", err)
	}
	return svc, nil
}

// entryArg requires exactly one positional entry.
func entryArg(verb string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return core.Reject(core.ErrUsage, "", "userstore "+verb+" <entry>")
		}
		return nil
	}
}

// patternArg accepts an optional glob pattern.
func patternArg(verb string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return core.Reject(core.ErrUsage, "", "userstore "+verb+" [pattern]")
		}
		return nil
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
