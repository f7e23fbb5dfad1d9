package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
	"newsquiz/internal/infra/remote"

	"github.com/spf13/cobra"
)

// NewImportCmd loads a file of {gameType, quizDate, data} records into the configured store.
func NewImportCmd(configPath *string) *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import quiz records into the question store",
		Long: "Import reads a JSON array of {gameType, quizDate, data: {questions}} records (optionally wrapped\n" +
			"in {body: ...}). By default each record replaces its (theme, date) set; --merge upserts by id instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			records, err := remote.DecodeRecords(raw)
			if err != nil {
				return err
			}

			stores, err := openBackends(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer stores.Close()

			ingest := app.NewIngestService(stores.questions, log)
			out := cmd.OutOrStdout()
			for _, r := range records {
				theme, err := domain.ParseTheme(r.GameType)
				if err != nil {
					fmt.Fprintf(out, "skip %s/%s: %v\n", r.GameType, r.QuizDate, err)
					continue
				}
				if _, err := domain.ParseDate(r.QuizDate); err != nil {
					fmt.Fprintf(out, "skip %s/%s: %v\n", r.GameType, r.QuizDate, err)
					continue
				}
				if merge {
					res, err := ingest.Ingest(cmd.Context(), theme, r.QuizDate, r.Data.Questions)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "merged %s/%s: %d incoming, %d total\n", theme, r.QuizDate, res.AddedOrUpdated, res.TotalQuestions)
					continue
				}
				if err := stores.questions.Write(cmd.Context(), theme, r.QuizDate, r.Data.Questions); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s/%s: %d questions\n", theme, r.QuizDate, len(r.Data.Questions))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "merge by question id instead of replacing each set")
	return cmd
}

// NewExportCmd prints the whole store as a JSON array of records.
func NewExportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print every stored question set as JSON records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			stores, err := openBackends(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer stores.Close()

			ds, err := stores.questions.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}
			records := ds.Records()
			if records == nil {
				records = []domain.QuizRecord{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
}
