package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/history"
	"github.com/spf13/cobra"
)

var noteTranscript bool

func init() {
	noteCmd.Flags().BoolVar(&noteTranscript, "transcript", false, "Record the text as a call transcript instead of a note")
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(historyCmd)
}

var noteCmd = &cobra.Command{
	Use:   "note <contact> <text>",
	Short: "Record a note or call transcript for a contact",
	Long:  "Appends a note to the contact's interaction history. Notes and transcripts feed draft personalization: the most recent transcript and latest notes travel with the recipient context at generation time.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}
		resolver, err := openResolver(dir)
		if err != nil {
			return err
		}

		c := lookupContact(resolver, args[0])
		if c == nil {
			return fmt.Errorf("contact %q not found", args[0])
		}

		text := strings.Join(args[1:], " ")

		// Piped input replaces the inline text (useful for transcripts).
		if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
			data, err := os.ReadFile("/dev/stdin")
			if err == nil && len(data) > 0 {
				text = strings.TrimSpace(string(data))
			}
		}

		ledger, err := history.NewLedger(filepath.Join(dir, "history"))
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}

		entryType := history.TypeNote
		if noteTranscript {
			entryType = history.TypeTranscript
		}

		err = ledger.Append(crm.SlugFor(c.Name), history.Entry{
			Type:      entryType,
			Timestamp: time.Now().UTC(),
			Content:   text,
		})
		if err != nil {
			return fmt.Errorf("recording %s: %w", entryType, err)
		}

		fmt.Printf("Recorded %s for %s\n", entryType, c.Name)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <contact>",
	Short: "Show a contact's interaction history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}
		resolver, err := openResolver(dir)
		if err != nil {
			return err
		}

		c := lookupContact(resolver, strings.Join(args, " "))
		if c == nil {
			return fmt.Errorf("contact %q not found", args[0])
		}

		ledger, err := history.NewLedger(filepath.Join(dir, "history"))
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}

		entries, err := ledger.List(crm.SlugFor(c.Name), 0)
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Printf("No history for %s.\n", c.Name)
			return nil
		}

		fmt.Printf("\n  History for %s:\n\n", c.Name)
		for _, e := range entries {
			ts := e.Timestamp.Format("2006-01-02 15:04")
			label := e.Subject
			if label == "" {
				label = firstHistoryLine(e.Content)
			}
			fmt.Printf("    %s  [%s]  %s\n", ts, e.Type, label)
		}
		fmt.Println()
		return nil
	},
}

// firstHistoryLine returns the first non-empty line of an entry, trimmed
// for one-line display.
func firstHistoryLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 70 {
			return line[:70] + "..."
		}
		return line
	}
	return ""
}
