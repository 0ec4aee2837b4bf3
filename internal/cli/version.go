package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-ihex/bootloader"
)

// VersionResult holds an extracted bootloader version.
type VersionResult struct {
	File    string `json:"file,omitempty"`
	Version string `json:"version"`
	Major   byte   `json:"major"`
	Minor   byte   `json:"minor"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version <file.hex>",
		Short: "Extract the bootloader version from an Intel HEX file",
		Long: `Search the memory image of an Intel HEX file for the bootloader build
signature and print the major and minor version bytes that follow it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runVersion(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd, 0)
	if err != nil {
		return err
	}

	ver, err := s.inspector.BootloaderVersion(path)
	if err != nil {
		var parseErr *bootloader.ParseError
		if errors.As(err, &parseErr) {
			return reportLoadError(s.out, "version", err)
		}
		_ = s.out.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, "version", err)
	}

	result := VersionResult{
		File:    path,
		Version: ver.String(),
		Major:   ver.Major,
		Minor:   ver.Minor,
	}
	if s.out.JSON() {
		return s.out.Success(result)
	}
	s.out.Printf("%s: bootloader %s (major=0x%02X minor=0x%02X)\n",
		path, result.Version, result.Major, result.Minor)
	return nil
}
