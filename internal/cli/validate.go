package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.hex>",
		Short: "Strictly validate an Intel HEX file",
		Long: `Validate every record of an Intel HEX file and stop at the first error.

Checks record syntax, checksums, record types, EOF records and overlapping
data addresses.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd, 0)
	if err != nil {
		return err
	}

	err = s.inspector.Validate(path)
	if errors.Is(err, os.ErrNotExist) {
		_ = s.out.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate", err)
	}

	result := ValidationResult{File: path, Valid: err == nil}
	if err != nil {
		if s.out.JSON() {
			_ = s.out.Error(ErrCodeInvalid, err.Error(), result)
		} else {
			s.out.Fail("%s is invalid: %v", path, err)
		}
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	if s.out.JSON() {
		return s.out.Success(result)
	}
	s.out.Pass("%s is valid", path)
	return nil
}
