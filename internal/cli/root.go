package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-ihex/bootloader"
	"github.com/moffa90/go-ihex/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ihex CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ihex",
		Short: "Inspect Intel HEX firmware images",
		Long: `Validate Intel HEX firmware images and report their flash usage
and embedded bootloader version.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPagesCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewBinCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session bundles what a command needs to run.
type session struct {
	inspector *bootloader.Inspector
	out       *OutputFormatter
}

// newSession loads configuration, applies flag overrides and builds an
// inspector logging to the command's error stream.
func newSession(opts *RootOptions, cmd *cobra.Command, pageSize uint32) (*session, error) {
	out := newFormatter(opts.Format, cmd.OutOrStdout())

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, configError(out, err)
		}
		cfg = loaded
	}
	if pageSize > 0 {
		cfg.PageSize = pageSize
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, configError(out, err)
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}

	inspectorOpts, err := cfg.Options()
	if err != nil {
		return nil, configError(out, err)
	}
	inspectorOpts = append(inspectorOpts,
		bootloader.WithLogger(newLogger(cmd.ErrOrStderr(), level)))

	return &session{
		inspector: bootloader.New(inspectorOpts...),
		out:       out,
	}, nil
}

func configError(out *OutputFormatter, err error) error {
	_ = out.Error(ErrCodeConfig, err.Error(), nil)
	return WrapExitError(ExitCommandError, "load config", err)
}

// reportLoadError reports a file that could not be opened or rebuilt.
// A missing file is a command error, a malformed one a failure.
func reportLoadError(out *OutputFormatter, op string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		_ = out.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, op, err)
	}

	_ = out.Error(ErrCodeParse, err.Error(), nil)
	return WrapExitError(ExitFailure, op, err)
}
