package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/seotest/models"
	"github.com/use-agent/seotest/scraper"
	"github.com/use-agent/seotest/transform"
)

func newScrapeCmd() *cobra.Command {
	var (
		out      string
		htmlFile string
		testData string
		id       string
		idPage   string
	)

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape a page into a scrape document",
		Long: `Fetches the page (or parses --html, using <url> as its address) and
writes the scrape document to --out or stdout. With --test-data the page is
also converted straight into a test-data file. With --render the page is
loaded in headless Chrome first, for sites that build their markup in script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL := args[0]

			var result *models.ScrapeResult
			if htmlFile != "" {
				raw, err := os.ReadFile(htmlFile)
				if err != nil {
					return fmt.Errorf("read html: %w", err)
				}
				result, err = scraper.Extract(string(raw), pageURL, scraper.ExtractOptions{
					DuplicateThreshold: cfg.Scraper.DuplicateThreshold,
				})
				if err != nil {
					return err
				}
			} else {
				sc, err := scraper.NewScraper(cfg.Scraper)
				if err != nil {
					return err
				}
				defer sc.Close()

				page, err := sc.Scrape(cmd.Context(), pageURL, 0)
				if err != nil {
					return err
				}
				result = page.Result
			}

			doc := &models.ScrapeDocument{Result: result}
			data, err := transform.EncodeJSON(doc)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write scrape document: %w", err)
			}

			if testData == "" {
				return nil
			}
			cases, err := transform.TransformDocument(doc, id, idPage)
			if err != nil {
				return err
			}
			encoded, err := transform.Encode(cases)
			if err != nil {
				return err
			}
			if err := os.WriteFile(testData, encoded, 0o644); err != nil {
				return fmt.Errorf("write test data: %w", err)
			}
			slog.Info("test data written", "file", testData, "cases", len(cases))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the scrape document here instead of stdout")
	cmd.Flags().StringVar(&htmlFile, "html", "", "parse this HTML file instead of fetching <url>")
	cmd.Flags().StringVar(&testData, "test-data", "", "also write converted test data to this file")
	cmd.Flags().StringVar(&id, "id", "id", "value copied into every case's id")
	cmd.Flags().StringVar(&idPage, "id-page", "id_page", "value copied into every case's id_page")
	return cmd
}
