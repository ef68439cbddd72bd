// ABOUTME: Root command, global flags and shared wiring for subcommands
// ABOUTME: Collaborators are package variables so tests can swap in fakes
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/stagewise/internal/charm"
	"github.com/harper/stagewise/internal/config"
	"github.com/harper/stagewise/internal/console"
	"github.com/harper/stagewise/internal/journal"
	"github.com/harper/stagewise/internal/llm"
	"github.com/harper/stagewise/internal/survey"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	localeFlag   string
	useJournal   bool
)

var (
	loadConfig = func() (*config.Config, error) {
		// .env is optional
		_ = godotenv.Load()
		return config.Load()
	}

	newGenerator = llm.New

	openJournal = func(cfg *config.Config) (*journal.Journal, func() error, error) {
		client, err := charm.NewClient(charm.ConfigFrom(cfg))
		if err != nil {
			return nil, nil, err
		}
		return journal.New(client), client.Close, nil
	}

	newAsker = func(cmd *cobra.Command) (survey.Asker, func() error, error) {
		c, err := console.New(console.Options{})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stagewise",
		Short: "Conversational sales-stage and recommendation assistant",
		Long: `stagewise asks a chat model to judge sales dialogues and to turn
questionnaire answers into recommendations.

  advance   decide whether a dialogue may move to the next sales stage
  advise    answer a short questionnaire and get a recommendation
  mcp       expose both as tools to LLM agents over stdio

Configure the model with OPENAI_API_KEY (or STAGEWISE_PROVIDER=gemini|ollama).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "text", "json":
				return nil
			}
			return fmt.Errorf("--format must be auto, text or json, got %q", outputFormat)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show model replies and warnings")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text or json")
	cmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "Prompt language (en, ru); overrides STAGEWISE_LOCALE")
	cmd.PersistentFlags().BoolVar(&useJournal, "journal", false, "Record results in the Charm-synced journal")

	cmd.AddCommand(NewAdvanceCmd())
	cmd.AddCommand(NewAdviseCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI until completion or an interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// effectiveLocale picks the --locale flag over configuration
func effectiveLocale(cfg *config.Config) string {
	if localeFlag != "" {
		return localeFlag
	}
	return cfg.Locale
}

func warnf(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}

// recordWith opens the journal when --journal is set and passes it to fn
func recordWith(cfg *config.Config, fn func(j *journal.Journal) (*journal.Entry, error)) {
	if !useJournal {
		return
	}
	j, closeFn, err := openJournal(cfg)
	if err != nil {
		warnf("could not open journal: %v", err)
		return
	}
	defer func() { _ = closeFn() }()

	entry, err := fn(j)
	if err != nil {
		warnf("could not record journal entry: %v", err)
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Recorded journal entry %s\n", entry.ID)
	}
}
