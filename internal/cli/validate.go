package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"maturity-quiz-service/internal/domain"
	"maturity-quiz-service/internal/infra/file"
	"maturity-quiz-service/internal/scoring"
)

// NewValidateCmd checks question bank definitions and reports every problem found.
func NewValidateCmd(st *state) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the built-in question bank or bank files",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			type target struct {
				name string
				bank domain.QuestionBank
			}
			var targets []target
			if len(files) == 0 {
				targets = append(targets, target{name: "built-in", bank: scoring.BuiltinBank()})
			}
			for _, path := range files {
				bank, err := file.ReadBank(path)
				if err != nil {
					return err
				}
				targets = append(targets, target{name: path, bank: bank})
			}

			failed := 0
			for _, t := range targets {
				err := scoring.Validate(t.bank)
				if err == nil {
					fmt.Fprintf(out, "%s: ok\n", t.name)
					continue
				}
				failed++
				var verr *scoring.ValidationError
				if !errors.As(err, &verr) {
					return err
				}
				fmt.Fprintf(out, "%s: %d issue(s)\n", t.name, len(verr.Issues))
				for _, issue := range verr.Issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Field, issue.Message)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d bank(s) invalid: %w", failed, len(targets), domain.ErrInvalidBank)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "question bank YAML/JSON file (repeatable)")
	return cmd
}
