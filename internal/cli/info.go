package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InfoResult summarises a firmware file.
type InfoResult struct {
	File       string          `json:"file"`
	Valid      bool            `json:"valid"`
	Problem    string          `json:"problem,omitempty"`
	Bytes      int             `json:"bytes"`
	MinAddress string          `json:"min_address,omitempty"`
	MaxAddress string          `json:"max_address,omitempty"`
	Segments   []SegmentResult `json:"segments"`
	PageSize   uint32          `json:"page_size"`
	Pages      int             `json:"pages"`
	Bootloader *VersionResult  `json:"bootloader,omitempty"`
}

// SegmentResult describes a contiguous run of bytes.
type SegmentResult struct {
	Address string `json:"address"`
	Size    int    `json:"size"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	var pageSize uint32

	cmd := &cobra.Command{
		Use:   "info <file.hex>",
		Short: "Summarise an Intel HEX file",
		Long: `Print the validation verdict, address range, segments, flash usage and
bootloader version of an Intel HEX file.

The image is rebuilt even when strict validation fails, so a file with
overlapping records can still be summarised.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], pageSize, cmd)
		},
	}

	cmd.Flags().Uint32VarP(&pageSize, "page-size", "p", 0, "flash page size in bytes (default from config, 2048)")

	return cmd
}

func runInfo(opts *RootOptions, path string, pageSize uint32, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd, pageSize)
	if err != nil {
		return err
	}

	report, err := s.inspector.Inspect(path)
	if err != nil {
		return reportLoadError(s.out, "info", err)
	}

	result := InfoResult{
		File:     path,
		Valid:    report.Valid(),
		Bytes:    report.Bytes,
		Segments: make([]SegmentResult, 0, len(report.Segments)),
		PageSize: report.PageSize,
		Pages:    report.Pages,
	}
	if !report.Valid() {
		result.Problem = report.ValidationErr.Error()
	}
	if report.Bytes > 0 {
		result.MinAddress = formatAddress(report.MinAddress)
		result.MaxAddress = formatAddress(report.MaxAddress)
	}
	for _, seg := range report.Segments {
		result.Segments = append(result.Segments, SegmentResult{
			Address: formatAddress(seg.Address),
			Size:    len(seg.Data),
		})
	}
	if report.Version != nil {
		result.Bootloader = &VersionResult{
			Version: report.Version.String(),
			Major:   report.Version.Major,
			Minor:   report.Version.Minor,
		}
	}

	if s.out.JSON() {
		return s.out.Success(result)
	}

	printInfo(s.out, &result, report.SignatureAddress)
	return nil
}

func printInfo(out *OutputFormatter, r *InfoResult, sigAddr uint32) {
	out.Printf("File:       %s\n", r.File)
	if r.Valid {
		out.Printf("Valid:      yes\n")
	} else {
		out.Printf("Valid:      no (%s)\n", r.Problem)
	}
	out.Printf("Bytes:      %d\n", r.Bytes)
	if r.Bytes > 0 {
		out.Printf("Range:      %s - %s\n", r.MinAddress, r.MaxAddress)
	}
	out.Printf("Segments:   %d\n", len(r.Segments))
	for _, seg := range r.Segments {
		out.Printf("  %s  %d bytes\n", seg.Address, seg.Size)
	}
	out.Printf("Pages:      %d x %d bytes\n", r.Pages, r.PageSize)
	if r.Bootloader != nil {
		out.Printf("Bootloader: %s (major=0x%02X minor=0x%02X) at %s\n",
			r.Bootloader.Version, r.Bootloader.Major, r.Bootloader.Minor, formatAddress(sigAddr))
	} else {
		out.Printf("Bootloader: not found\n")
	}
}

// formatAddress renders an address the way the commands print it.
func formatAddress(addr uint32) string {
	return fmt.Sprintf("0x%08X", addr)
}
