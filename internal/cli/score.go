package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"maturity-quiz-service/internal/config"
	"maturity-quiz-service/internal/infra/file"
	"maturity-quiz-service/internal/infra/memory"
	"maturity-quiz-service/internal/scoring"
)

// NewScoreCmd scores an answer list offline and prints the results.
func NewScoreCmd(st *state) *cobra.Command {
	var (
		bankID   string
		bankFile string
		answers  string
		format   string
		noColor  bool
	)
	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Score a list of answer indexes against a question bank",
		Example: `  maturity-quiz score --answers 3,3,1,0,2,2,0,0,3,2,1,2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseAnswerList(answers)
			if err != nil {
				return err
			}
			bank, err := resolveBank(cmd, st.cfg, bankID, bankFile)
			if err != nil {
				return err
			}
			results := bank.Score(parsed)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			case "text":
				_, err := fmt.Fprint(out, renderResults(results, noColor))
				return err
			default:
				return fmt.Errorf("unknown format %q (want json or text)", format)
			}
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "question bank id (defaults to bank.default)")
	cmd.Flags().StringVar(&bankFile, "bank-file", "", "read the question bank from a YAML/JSON file")
	cmd.Flags().StringVar(&answers, "answers", "", "comma-separated answer indexes; -1 or empty leaves a question unanswered")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func resolveBank(cmd *cobra.Command, cfg config.Config, bankID, bankFile string) (*scoring.Bank, error) {
	if bankFile != "" {
		def, err := file.ReadBank(bankFile)
		if err != nil {
			return nil, err
		}
		return scoring.Load(def)
	}
	loader := memory.FallbackLoader{}
	if cfg.Bank.Dir != "" {
		loader = append(loader, file.NewBankLoader(cfg.Bank.Dir))
	}
	loader = append(loader, memory.NewStaticBankLoader(scoring.BuiltinBank()))
	repo := memory.NewBankRepository(loader, time.Minute)
	id := bankID
	if id == "" {
		id = config.OrDefault(cfg.Bank.Default, scoring.DefaultBankID)
	}
	return repo.GetBank(cmd.Context(), id)
}

func parseAnswerList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	answers := make([]int, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			answers = append(answers, -1)
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not an integer", i+1, p)
		}
		answers = append(answers, v)
	}
	return answers, nil
}
