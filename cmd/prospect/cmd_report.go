package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/handoff"
	"github.com/jcadam/prospector/pkg/history"
	"github.com/jcadam/prospector/pkg/render"
	"github.com/jcadam/prospector/pkg/reports"
	"github.com/spf13/cobra"
)

var exportFormat string

func init() {
	reportExportCmd.Flags().StringVar(&exportFormat, "format", "html", "Export format: md or html")

	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportExportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [account]",
	Short: "Build and view an account report",
	Long: `Builds a markdown report for the named account (energy facts,
contacts, recent interactions, a rate-comparison chart) and opens it in
the scrollable viewer. With no account, reports on the whole book.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfigQuiet(dir)
		if err != nil {
			return err
		}

		markdown, accountSlug, err := buildReport(dir, args)
		if err != nil {
			return err
		}

		// Piped output gets the raw markdown, no viewer.
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(markdown)
			return nil
		}

		rep, err := reports.Save(filepath.Join(dir, "reports"), accountSlug, markdown)
		if err != nil {
			return err
		}

		htmlPath, err := reports.ExportHTML(rep.Markdown, rep.Title, rep.Dir)
		if err != nil {
			fmt.Printf("warning: HTML export failed: %v\n", err)
		}

		opts := []render.ViewerOption{
			render.WithHandoff(handoff.New(cfg.Apps)),
			render.WithReportDir(rep.Dir),
			render.WithImageConfig(cfg.Rendering.Images),
		}
		if htmlPath != "" {
			opts = append(opts, render.WithHTMLPath(htmlPath))
		}
		return render.RunViewer(rep.Title, rep.Markdown, opts...)
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		list, err := reports.List(filepath.Join(dir, "reports"))
		if err != nil {
			return fmt.Errorf("listing reports: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No reports yet. Run 'prospect report [account]'.")
			return nil
		}

		for _, r := range list {
			fmt.Printf("  %s  %-20s  %s\n", r.Date, r.Account, r.Title)
		}
		return nil
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export [account]",
	Short: "Export the latest report for an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		accountSlug := "book"
		if len(args) > 0 {
			accountSlug = crm.SlugFor(strings.Join(args, " "))
		}

		rep, err := reports.FindLatest(filepath.Join(dir, "reports"), accountSlug)
		if err != nil {
			return fmt.Errorf("no report found for %q; run 'prospect report' first", accountSlug)
		}

		switch exportFormat {
		case "md":
			fmt.Println(filepath.Join(rep.Dir, "report.md"))
			return nil
		case "html":
			path, err := reports.ExportHTML(rep.Markdown, rep.Title, rep.Dir)
			if err != nil {
				return fmt.Errorf("exporting HTML: %w", err)
			}
			fmt.Println(path)
			return nil
		default:
			return fmt.Errorf("unknown export format %q (want md or html)", exportFormat)
		}
	},
}

// buildReport assembles the markdown for one account or the whole book.
func buildReport(dir string, args []string) (markdown, accountSlug string, err error) {
	accountStore, err := crm.NewAccountStore(filepath.Join(dir, "accounts"))
	if err != nil {
		return "", "", err
	}
	book, err := accountStore.List()
	if err != nil {
		return "", "", fmt.Errorf("listing accounts: %w", err)
	}

	if len(args) == 0 {
		if len(book) == 0 {
			return "", "", fmt.Errorf("no accounts yet; add one with 'prospect accounts add'")
		}
		return reports.BuildBook(book), "book", nil
	}

	name := strings.Join(args, " ")
	account, err := accountStore.Get(crm.SlugFor(name))
	if err != nil {
		return "", "", fmt.Errorf("account %q not found", name)
	}

	contactStore, err := crm.NewContactStore(filepath.Join(dir, "contacts"))
	if err != nil {
		return "", "", err
	}
	allContacts, err := contactStore.List()
	if err != nil {
		return "", "", fmt.Errorf("listing contacts: %w", err)
	}
	contacts := contactsForAccount(account, allContacts)

	ledger, err := history.NewLedger(filepath.Join(dir, "history"))
	if err != nil {
		return "", "", err
	}

	return reports.BuildAccount(account, contacts, ledger, book), crm.SlugFor(account.Name), nil
}

// contactsForAccount filters the contact list down to one account,
// matching by explicit account ID first and company name second.
func contactsForAccount(account *crm.Account, all []*crm.Contact) []*crm.Contact {
	var out []*crm.Contact
	for _, c := range all {
		if c.AccountID != "" && c.AccountID == account.ID {
			out = append(out, c)
			continue
		}
		if c.Company != "" && crm.SlugFor(c.Company) == crm.SlugFor(account.Name) {
			out = append(out, c)
		}
	}
	return out
}
