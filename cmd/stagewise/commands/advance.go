// ABOUTME: CLI command to evaluate a sales dialogue against a stage sequence
// ABOUTME: Prints the next stage, the unchanged current stage, or the terminal marker
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/stagewise/internal/config"
	"github.com/harper/stagewise/internal/journal"
	"github.com/harper/stagewise/internal/stage"
)

const demoDialogue = `
Клиент: Мы рассматриваем возможность улучшения нашего IT-инфраструктуры.
Специалист: Хорошо, расскажите, пожалуйста, о текущих проблемах и задачах, которые вы хотите решить.
Клиент: У нас есть проблемы с масштабируемостью и безопасностью.
Специалист: Понял вас, мы можем предложить решения, которые помогут вам в этих областях.
`

var (
	advanceStages   []string
	advanceSequence string
	advanceCatalog  string
	advanceCurrent  string
	advanceDialogue string
	advanceFile     string
	advanceDemo     bool
)

// NewAdvanceCmd creates the advance command
func NewAdvanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Decide whether a dialogue moves to the next stage",
		Long: `Ask the model whether a sales dialogue is ready to leave its current stage.

Prints the next stage when the model agrees, the current stage when it
does not, and a terminal marker when the current stage is already the
last one (no model call is made in that case).

The dialogue comes from --dialogue, --file, or stdin.

Examples:
  stagewise advance --stages "Contact,Discovery,Pitch" --current Discovery --file chat.txt
  stagewise advance --sequence sales --current Presentation < chat.txt
  stagewise advance --demo --verbose`,
		Args: cobra.NoArgs,
		RunE: runAdvance,
	}

	cmd.Flags().StringSliceVar(&advanceStages, "stages", nil, "Ordered stage names (comma-separated)")
	cmd.Flags().StringVar(&advanceSequence, "sequence", "", "Use a named sequence from the catalog")
	cmd.Flags().StringVar(&advanceCatalog, "catalog", "", "YAML stage catalog (default: STAGEWISE_CATALOG or built-in)")
	cmd.Flags().StringVar(&advanceCurrent, "current", "", "Current stage")
	cmd.Flags().StringVar(&advanceDialogue, "dialogue", "", "Dialogue text")
	cmd.Flags().StringVar(&advanceFile, "file", "", "Read dialogue from file")
	cmd.Flags().BoolVar(&advanceDemo, "demo", false, "Run the built-in Russian sales example")
	cmd.MarkFlagsMutuallyExclusive("stages", "sequence")
	cmd.MarkFlagsMutuallyExclusive("dialogue", "file")

	return cmd
}

func runAdvance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	localeName := effectiveLocale(cfg)
	stages, current, dialogue := advanceStages, advanceCurrent, ""

	if advanceDemo {
		stages = stage.DefaultCatalog().Sequences["sales-ru"]
		current = "Выявление потребностей"
		dialogue = demoDialogue
		if localeFlag == "" {
			localeName = "ru"
		}
	} else {
		if len(stages) == 0 {
			if advanceSequence == "" {
				return fmt.Errorf("either --stages or --sequence is required")
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			if stages, err = catalog.Sequence(advanceSequence); err != nil {
				return err
			}
		}
		if current == "" {
			return fmt.Errorf("--current is required")
		}
		// the last stage is answered without a model call and needs no dialogue
		if !stage.Sequence(stages).IsLast(current) {
			if dialogue, err = readDialogue(cmd.InOrStdin()); err != nil {
				return err
			}
		}
	}

	loc, err := stage.LookupLocale(localeName)
	if err != nil {
		return err
	}

	// the client is only built when a judgment is actually needed
	judge := stage.JudgeFunc(func(ctx context.Context, current, dialogue string) (string, error) {
		gen, err := newGenerator(ctx, cfg)
		if err != nil {
			return "", fmt.Errorf("initializing model client: %w", err)
		}
		return stage.NewLLMJudge(gen, loc).Judge(ctx, current, dialogue)
	})

	evaluator := stage.NewEvaluator(judge, stage.WithLocale(loc), stage.WithMarkers(cfg.Markers...))
	out, err := evaluator.Evaluate(cmd.Context(), stages, current, dialogue)
	if err != nil {
		return err
	}

	recordWith(cfg, func(j *journal.Journal) (*journal.Entry, error) {
		return j.RecordEvaluation(stages, loc.Code, out)
	})

	return printOutcome(cmd, out)
}

func printOutcome(cmd *cobra.Command, out *stage.Outcome) error {
	w := cmd.OutOrStdout()

	if outputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if verbose && out.Reply != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Model: %s\n", out.Reply)
	}
	if quiet {
		_, err := fmt.Fprintln(w, out.Next)
		return err
	}

	switch {
	case out.Terminal:
		_, err := fmt.Fprintln(w, out.Next)
		return err
	case out.Advanced:
		_, err := fmt.Fprintf(w, "Next stage: %s\n", out.Next)
		return err
	default:
		_, err := fmt.Fprintf(w, "Staying at: %s\n", out.Next)
		return err
	}
}

func loadCatalog(cfg *config.Config) (*stage.Catalog, error) {
	path := advanceCatalog
	if path == "" {
		path = cfg.CatalogPath
	}
	if path == "" {
		return stage.DefaultCatalog(), nil
	}
	return stage.LoadCatalog(path)
}

func readDialogue(stdin io.Reader) (string, error) {
	var text string
	switch {
	case advanceDialogue != "":
		text = advanceDialogue
	case advanceFile != "":
		data, err := os.ReadFile(advanceFile)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no dialogue provided")
	}
	return text, nil
}
