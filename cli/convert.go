package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/use-agent/seotest/transform"
)

func newConvertCmd() *cobra.Command {
	var (
		out    string
		id     string
		idPage string
	)

	cmd := &cobra.Command{
		Use:   "convert <scraped.json>",
		Short: "Convert a scrape document into a test-data file",
		Long: `Reads a scrape document ({"result": {...}}) and writes one test case per
element to the output file. The file can be served as GET /test_data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = cfg.Pages.TestDataFile
			}

			n, err := transform.ConvertFile(args[0], out, id, idPage)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}

			slog.Info("test data written", "file", out, "cases", n)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: SEOTEST_TEST_DATA_FILE)")
	cmd.Flags().StringVar(&id, "id", "id", "value copied into every case's id")
	cmd.Flags().StringVar(&idPage, "id-page", "id_page", "value copied into every case's id_page")
	return cmd
}
