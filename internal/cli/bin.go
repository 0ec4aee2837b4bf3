package cli

import (
	"fmt"
	"os"

	"github.com/marcinbor85/gohex"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-ihex/ihex"
)

// maxBinarySize bounds the binary written by the bin command.
const maxBinarySize = 64 << 20

// BinResult describes a written binary image.
type BinResult struct {
	File       string `json:"file"`
	Output     string `json:"output"`
	StartAddr  string `json:"start_address"`
	Size       uint32 `json:"size"`
	PaddedSize uint32 `json:"padding_bytes"`
}

// NewBinCommand creates the bin command.
func NewBinCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output string
		pad    uint8
	)

	cmd := &cobra.Command{
		Use:   "bin <file.hex>",
		Short: "Convert an Intel HEX file to a raw binary",
		Long: `Write the memory image of an Intel HEX file as a raw binary covering
its lowest to highest address. Gaps between segments are filled with the
padding byte (0xFF, erased flash, by default).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBin(rootOpts, args[0], output, pad, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output binary file (required)")
	cmd.Flags().Uint8Var(&pad, "pad", 0xFF, "byte used to fill gaps between segments")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runBin(opts *RootOptions, path, output string, pad uint8, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd, 0)
	if err != nil {
		return err
	}

	img, err := ihex.Parse(path)
	if err != nil {
		return reportLoadError(s.out, "bin", err)
	}

	data, start, err := flatten(img, pad)
	if err != nil {
		_ = s.out.Error(ErrCodeInvalid, err.Error(), nil)
		return WrapExitError(ExitFailure, "bin", err)
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		_ = s.out.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "write binary", err)
	}

	result := BinResult{
		File:       path,
		Output:     output,
		StartAddr:  formatAddress(start),
		Size:       uint32(len(data)),
		PaddedSize: uint32(len(data) - img.Len()),
	}
	if s.out.JSON() {
		return s.out.Success(result)
	}
	s.out.Pass("wrote %d bytes from %s to %s (%d padding bytes)",
		result.Size, result.StartAddr, output, result.PaddedSize)
	return nil
}

// flatten copies the image segments into a gohex memory and renders the
// range from the lowest to the highest address as one binary.
func flatten(img *ihex.Image, pad byte) ([]byte, uint32, error) {
	lo, ok := img.MinAddress()
	if !ok {
		return nil, 0, fmt.Errorf("image is empty")
	}
	hi, _ := img.MaxAddress()

	if span := uint64(hi) - uint64(lo) + 1; span > maxBinarySize {
		return nil, 0, fmt.Errorf("address range %s-%s spans %d bytes, limit is %d",
			formatAddress(lo), formatAddress(hi), span, maxBinarySize)
	}

	mem := gohex.NewMemory()
	for _, seg := range img.Segments() {
		if err := mem.AddBinary(seg.Address, seg.Data); err != nil {
			return nil, 0, fmt.Errorf("segment at %s: %w", formatAddress(seg.Address), err)
		}
	}

	return mem.ToBinary(lo, hi-lo+1, pad), lo, nil
}
