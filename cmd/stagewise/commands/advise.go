// ABOUTME: CLI command that runs a questionnaire and asks the model for advice
// ABOUTME: Answers come from the terminal or a YAML/JSON file; output is JSON
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/stagewise/internal/journal"
	"github.com/harper/stagewise/internal/survey"
)

var (
	adviseQuestionnaire string
	adviseAnswersFile   string
)

// NewAdviseCmd creates the advise command
func NewAdviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Answer a questionnaire and get a recommendation",
		Long: `Ask the questions of a built-in questionnaire one by one, then send
the answers to the model and print the recommendation as JSON.

With --answers the questions are skipped and the answers are read from
a YAML or JSON file mapping question keys to answers.

Examples:
  stagewise advise
  stagewise advise --locale ru
  stagewise advise --answers me.yaml --journal`,
		Args: cobra.NoArgs,
		RunE: runAdvise,
	}

	cmd.Flags().StringVar(&adviseQuestionnaire, "questionnaire", "snowboard", "Questionnaire to run")
	cmd.Flags().StringVar(&adviseAnswersFile, "answers", "", "Read answers from a YAML/JSON file instead of asking")

	return cmd
}

func runAdvise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	q, err := survey.Builtin(adviseQuestionnaire, effectiveLocale(cfg))
	if err != nil {
		return err
	}

	var answers []survey.Answer
	if adviseAnswersFile != "" {
		values, err := readAnswersFile(adviseAnswersFile)
		if err != nil {
			return err
		}
		if answers, err = survey.AnswersFromMap(q, values); err != nil {
			return err
		}
	} else {
		asker, closeFn, err := newAsker(cmd)
		if err != nil {
			return fmt.Errorf("opening console: %w", err)
		}
		answers, err = survey.Collect(cmd.Context(), asker, q)
		_ = closeFn()
		if err != nil {
			return err
		}
	}

	gen, err := newGenerator(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initializing model client: %w", err)
	}

	res, err := survey.NewAdvisor(gen).Recommend(cmd.Context(), q, answers)
	if err != nil {
		return err
	}

	recordWith(cfg, func(j *journal.Journal) (*journal.Entry, error) {
		return j.RecordRecommendation(res)
	})

	if outputFormat == "text" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Recommendation)
		return err
	}
	data, err := res.JSON()
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func readAnswersFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing answers: %w", err)
	}
	return values, nil
}
