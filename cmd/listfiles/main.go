// Command listfiles prints every file under the working directory whose name
// ends in a suffix, skipping excluded directory names at any depth.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petasbytes/dungeon-tools/internal/config"
	"github.com/petasbytes/dungeon-tools/internal/lister"
	"github.com/petasbytes/dungeon-tools/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		exclude  []string
		suffix   string
		root     string
		watch    bool
		logLevel string
		envFile  string
	)

	cmd := &cobra.Command{
		Use:   "listfiles [--exclude NAME...] [NAME...]",
		Short: "List files ending in a suffix, skipping excluded directories",
		Long: `listfiles walks the current directory (or --root) and prints the path of
every file whose name ends in --suffix, one per line.

Directories whose name matches an exclusion are skipped at every depth.
Positional arguments are treated as additional exclusions, so
"listfiles --exclude build dist" excludes both.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				fmt.Fprintln(stderr, "config:", err)
				return err
			}
			if !cmd.Flags().Changed("log-level") {
				logLevel = cfg.LogLevel
			}
			log, err := logging.New(logLevel)
			if err != nil {
				fmt.Fprintln(stderr, "logger:", err)
				return err
			}
			defer func() { _ = log.Sync() }()

			opts := lister.Options{
				Root:    root,
				Suffix:  cfg.Suffix,
				Exclude: append(append([]string(nil), cfg.Exclude...), exclude...),
			}
			if cmd.Flags().Changed("suffix") {
				opts.Suffix = suffix
			}
			opts.Exclude = append(opts.Exclude, args...)

			log.Debug("listing",
				zap.String("root", opts.Root),
				zap.String("suffix", opts.Suffix),
				zap.Strings("exclude", opts.Exclude),
				zap.Bool("watch", watch),
			)

			if watch {
				err = lister.Watch(cmd.Context(), opts, log, func(path string) {
					fmt.Fprintln(stdout, path)
				})
				if err == nil || cmd.Context().Err() != nil {
					return nil
				}
			} else {
				err = lister.List(cmd.Context(), opts, stdout)
			}
			if err != nil {
				log.Error("listing failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringSliceVarP(&exclude, "exclude", "e", nil, "directory names to skip at any depth (repeatable, comma separated)")
	f.StringVar(&suffix, "suffix", lister.DefaultSuffix, "file name suffix to match")
	f.StringVar(&root, "root", "", "directory to walk (default: current directory)")
	f.BoolVar(&watch, "watch", false, "keep running and print matching files as they appear")
	f.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.StringVar(&envFile, "env-file", ".env", "optional dotenv file with AGT_* settings")
	return cmd
}
