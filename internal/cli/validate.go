package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"newsquiz/internal/domain"

	"github.com/spf13/cobra"
)

// NewValidateCmd checks an editor-format question file without touching any store.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a JSON array of editor questions for completeness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var questions []domain.Question
			if err := json.Unmarshal(raw, &questions); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
			}

			out := cmd.OutOrStdout()
			err = domain.ValidateAll(questions)
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintf(out, "question %d (%s):\n", p.Position+1, questions[p.Position].ID)
					for _, issue := range p.Issues {
						fmt.Fprintf(out, "  - %s\n", issue)
					}
				}
				return fmt.Errorf("%d of %d questions invalid", len(verr.Problems), len(questions))
			}
			fmt.Fprintf(out, "%d questions valid\n", len(questions))
			return nil
		},
	}
}
