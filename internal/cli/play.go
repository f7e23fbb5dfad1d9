package cli

import (
	"fmt"

	"newsquiz/internal/app"
	"newsquiz/internal/config"
	"newsquiz/internal/domain"
	"newsquiz/internal/infra/file"
	"newsquiz/internal/logger"
	"newsquiz/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewPlayCmd plays one (theme, date) quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		themeName string
		date      string
		preview   bool
		noColor   bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			theme, err := domain.ParseTheme(themeName)
			if err != nil {
				return err
			}

			// Log output would corrupt the alternate screen.
			log := logger.Nop()
			stores, err := openBackends(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer stores.Close()

			catalog := app.NewCatalog(stores.questions)
			if date == "" {
				latest, ok, err := catalog.MostRecentDate(cmd.Context(), theme)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no quiz available for %s", theme)
				}
				date = latest
			}
			questions, err := catalog.Questions(cmd.Context(), theme, date)
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				return fmt.Errorf("no quiz for %s on %s", theme, date)
			}

			var opts []app.SessionOption
			if !preview {
				opts = append(opts, app.WithProgressStore(file.NewProgressStore(cfg.File.ProgressPath)))
			}
			key := domain.ProgressKey{Theme: theme, Date: date}
			session := app.NewQuizSession(cmd.Context(), key, questions, opts...)

			model := tui.NewModel(session, tui.Options{NoColor: noColor, Preview: preview})
			program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()), tea.WithAltScreen())
			final, err := program.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(tui.Model); ok {
				snap := m.Snapshot()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d/%d correct\n", theme, date, snap.Score, snap.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&themeName, "theme", string(domain.DefaultTheme), "theme name or game id (g1, g2, g3)")
	cmd.Flags().StringVar(&date, "date", "", "quiz date yyyy-mm-dd (default: most recent)")
	cmd.Flags().BoolVar(&preview, "preview", false, "play without reading or saving progress")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	return cmd
}
