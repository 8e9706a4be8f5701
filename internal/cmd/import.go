package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/classifier"
	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/service"
)

func newImportCmd(c *cli) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load feedback into the store",
	}
	importCmd.AddCommand(newImportJSONCmd(c), newImportCSVCmd(c))
	return importCmd
}

func newImportJSONCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "json FILE",
		Short: "Import an analysis payload ({status, data, statistics}); - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			ds, err := feedback.Decode(in)
			if err != nil {
				return err
			}

			summary, err := c.importRecords(cmd, ds.Records)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), summary)

			if len(ds.Statistics) > 0 {
				writeMismatches(cmd.OutOrStdout(), ds.CrossCheck(aggregator.ByCategory(ds.Records).Tally))
			}
			return nil
		},
	}
}

func newImportCSVCmd(c *cli) *cobra.Command {
	var (
		subjectColumn string
		dateColumn    string
		lang          string
	)

	csvCmd := &cobra.Command{
		Use:   "csv FILE",
		Short: "Import a raw feedback export, tagging each subject with the keyword classifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			cl := classifier.New(lang)
			records, err := feedback.ReadCSV(in, feedback.CSVOptions{
				SubjectColumn: subjectColumn,
				DateColumn:    dateColumn,
				Tagger:        cl.Classify,
			})
			if err != nil {
				return err
			}
			c.logger.Debug("classified csv export",
				zap.Int("records", len(records)),
				zap.String("lang", cl.Language()))

			summary, err := c.importRecords(cmd, records)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	csvCmd.Flags().StringVar(&subjectColumn, "subject-column", "", "Subject column name (default: auto-detect)")
	csvCmd.Flags().StringVar(&dateColumn, "date-column", "", "Date column name (default: auto-detect)")
	csvCmd.Flags().StringVar(&lang, "lang", "en", fmt.Sprintf("Keyword language, one of %v", classifier.Languages()))
	return csvCmd
}

func (c *cli) importRecords(cmd *cobra.Command, records []feedback.Record) (service.ImportSummary, error) {
	ctx := cmd.Context()
	d, closeStore, err := c.dashboard(ctx, nil)
	if err != nil {
		return service.ImportSummary{}, err
	}
	defer closeStore()

	return d.Import(ctx, records)
}

func writeSummary(w io.Writer, s service.ImportSummary) {
	fmt.Fprintf(w, "batch %s: %d records imported, %d tagged, %d undated\n", s.BatchID, s.Inserted, s.Tagged, s.Undated)
}

func writeMismatches(w io.Writer, mismatches []feedback.Mismatch) {
	if len(mismatches) == 0 {
		fmt.Fprintln(w, "statistics match the imported records")
		return
	}
	for _, m := range mismatches {
		fmt.Fprintf(w, "statistics mismatch for %s: payload says %d, records give %d\n", m.Category, m.Expected, m.Computed)
	}
}
