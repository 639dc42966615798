package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/debug"
	"github.com/jcadam/prospector/pkg/sender"
	"github.com/jcadam/prospector/pkg/tasks"
	"github.com/spf13/cobra"
)

var debugEnabled bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugEnabled, "debug", false, "Log HTTP traffic to stderr")
}

var rootCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Prospector — outreach email composer for energy sales",
	Long:  "Prospector keeps a local book of contacts and accounts, drafts grounded outreach emails with an AI backend, and hands finished drafts to your mail client. CRM facts are injected deterministically; model text never supplies them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStatus()
	},
}

// printStatus summarizes the local book and configuration state.
func printStatus() error {
	dir, err := config.ProspectorDir()
	if err != nil {
		return err
	}

	fmt.Printf("\n  Prospector %s . %s\n", version, dir)

	cfg, cfgErr := loadConfigQuiet(dir)
	if cfgErr != nil {
		fmt.Println("  No configuration found. Run 'prospect init' to get started.")
		fmt.Println()
		return nil
	}

	contactStore, _ := crm.NewContactStore(filepath.Join(dir, "contacts"))
	accountStore, _ := crm.NewAccountStore(filepath.Join(dir, "accounts"))

	nContacts, nAccounts := 0, 0
	if contactStore != nil {
		nContacts = contactStore.Count()
	}
	if accountStore != nil {
		nAccounts = accountStore.Count()
	}
	fmt.Printf("  %d contact(s), %d account(s)\n", nContacts, nAccounts)

	if taskStore, err := tasks.NewStore(filepath.Join(dir, "tasks")); err == nil {
		if due, err := taskStore.Due(time.Now()); err == nil && len(due) > 0 {
			fmt.Printf("  %d task(s) due:\n", len(due))
			for _, t := range due {
				label := t.Title
				if t.ContactSlug != "" {
					label += " (" + t.ContactSlug + ")"
				}
				fmt.Printf("    - %s\n", label)
			}
		}
	}

	if cfg.Generation.Endpoint != "" {
		fmt.Println("  Generation backend configured")
	}
	if cfg.Directory.Endpoint != "" {
		fmt.Println("  Remote directory configured (prospect sync)")
	}
	if p, err := sender.Load(dir); err == nil && p == nil {
		fmt.Println("  No sender profile. Run 'prospect sender set' so drafts can be signed.")
	}

	fmt.Println("\n  Start composing: prospect compose [recipient]")
	fmt.Println()
	return nil
}

// loadConfigQuiet loads and resolves config without printing.
func loadConfigQuiet(prospectorDir string) (*config.Config, error) {
	cfg, err := config.Load(prospectorDir)
	if err != nil {
		return nil, err
	}
	config.ResolveEnvVars(cfg)
	return cfg, nil
}

// debugLogger returns a logger writing to stderr when --debug is set,
// nil otherwise. The nil logger is safe to use.
func debugLogger() *debug.Logger {
	if !debugEnabled {
		return nil
	}
	return debug.NewLogger(os.Stderr)
}

// httpClient builds an HTTP client with the debug transport attached
// when --debug is set.
func httpClient(timeout time.Duration) *http.Client {
	c := &http.Client{Timeout: timeout}
	if debugEnabled {
		c.Transport = debug.NewTransport(http.DefaultTransport, debugLogger())
	}
	return c
}

// openResolver opens the contact and account stores as a resolver.
func openResolver(prospectorDir string) (*crm.Resolver, error) {
	contactStore, err := crm.NewContactStore(filepath.Join(prospectorDir, "contacts"))
	if err != nil {
		return nil, fmt.Errorf("opening contacts: %w", err)
	}
	accountStore, err := crm.NewAccountStore(filepath.Join(prospectorDir, "accounts"))
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	return &crm.Resolver{Contacts: contactStore, Accounts: accountStore}, nil
}
