package cli

import (
	"github.com/spf13/cobra"
)

// PagesResult holds flash usage results.
type PagesResult struct {
	File     string `json:"file"`
	PageSize uint32 `json:"page_size"`
	Pages    int    `json:"pages"`
}

// NewPagesCommand creates the pages command.
func NewPagesCommand(rootOpts *RootOptions) *cobra.Command {
	var pageSize uint32

	cmd := &cobra.Command{
		Use:   "pages <file.hex>",
		Short: "Count the flash pages spanned by an Intel HEX file",
		Long: `Count the flash pages between the lowest and highest address written
by an Intel HEX file. Unwritten pages inside that range are counted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(rootOpts, args[0], pageSize, cmd)
		},
	}

	cmd.Flags().Uint32VarP(&pageSize, "page-size", "p", 0, "flash page size in bytes (default from config, 2048)")

	return cmd
}

func runPages(opts *RootOptions, path string, pageSize uint32, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd, pageSize)
	if err != nil {
		return err
	}

	pages, err := s.inspector.FlashPagesUsed(path)
	if err != nil {
		return reportLoadError(s.out, "pages", err)
	}

	result := PagesResult{File: path, PageSize: s.inspector.PageSize(), Pages: pages}
	if s.out.JSON() {
		return s.out.Success(result)
	}
	s.out.Printf("%s: %d pages of %d bytes\n", path, result.Pages, result.PageSize)
	return nil
}
