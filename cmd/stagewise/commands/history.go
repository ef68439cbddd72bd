// ABOUTME: CLI command to browse the evaluation journal
// ABOUTME: Lists recorded evaluations and recommendations, shows or deletes one
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/stagewise/internal/journal"
)

var (
	historyKind   string
	historyLimit  int
	historyDelete bool
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [entry-id]",
		Short: "Show recorded evaluations and recommendations",
		Long: `Show entries recorded with --journal, newest first.

Entries live in a Charm KV database and sync across devices linked
to the same Charm account.

Examples:
  stagewise history
  stagewise history --kind evaluation --limit 5
  stagewise history 6f1c... --format json
  stagewise history 6f1c... --delete`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().StringVar(&historyKind, "kind", "all", "Entry kind: all, evaluation or recommendation")
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().BoolVar(&historyDelete, "delete", false, "Delete the given entry")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "--limit"); err != nil {
		return err
	}
	kind, err := journal.ParseKind(historyKind)
	if err != nil {
		return err
	}
	if historyDelete && len(args) == 0 {
		return fmt.Errorf("--delete needs an entry ID")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	j, closeFn, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer func() { _ = closeFn() }()

	w := cmd.OutOrStdout()

	if len(args) == 1 {
		if historyDelete {
			if err := j.Delete(args[0]); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(w, "✓ Deleted entry %s\n", args[0])
			}
			return nil
		}

		entry, err := j.Get(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding entry: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	entries, err := j.List(kind, historyLimit)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding entries: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintln(w, "No journal entries yet. Run advance or advise with --journal.")
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tWHEN\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortID(e.ID), e.Kind, formatTime(e.CreatedAt), truncate(e.Summary(), 60))
	}
	return tw.Flush()
}
