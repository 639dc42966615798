package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(contactsCmd)
	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsImportCmd)
	contactsCmd.AddCommand(contactsSearchCmd)
	contactsCmd.AddCommand(contactsShowCmd)
	contactsCmd.AddCommand(contactsRemoveCmd)
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage your contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openContactStore()
		if err != nil {
			return err
		}

		list, err := store.List()
		if err != nil {
			return fmt.Errorf("listing contacts: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No contacts. Use 'prospect contacts add' or 'prospect contacts import <file>'.")
			return nil
		}

		for _, c := range list {
			fmt.Printf("  %s\n", contactLine(c))
		}
		fmt.Printf("\n%d contact(s)\n", len(list))
		return nil
	},
}

// contactLine formats a one-line contact summary.
func contactLine(c *crm.Contact) string {
	line := c.Name
	if c.Email != "" {
		line += "  <" + c.Email + ">"
	}
	var parts []string
	if c.Title != "" {
		parts = append(parts, c.Title)
	}
	if c.Company != "" {
		parts = append(parts, c.Company)
	}
	if len(parts) > 0 {
		line += "  (" + strings.Join(parts, ", ") + ")"
	}
	return line
}

var contactsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openContactStore()
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		c := &crm.Contact{}

		fmt.Print("Name (required): ")
		if !scanner.Scan() {
			return nil
		}
		c.Name = strings.TrimSpace(scanner.Text())
		if c.Name == "" {
			return fmt.Errorf("name is required")
		}

		fmt.Print("Email: ")
		if scanner.Scan() {
			c.Email = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Company: ")
		if scanner.Scan() {
			c.Company = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Title: ")
		if scanner.Scan() {
			c.Title = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Phone: ")
		if scanner.Scan() {
			c.Phone = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Tags (semicolon-separated): ")
		if scanner.Scan() {
			raw := strings.TrimSpace(scanner.Text())
			if raw != "" {
				for _, t := range strings.Split(raw, ";") {
					t = strings.TrimSpace(t)
					if t != "" {
						c.Tags = append(c.Tags, t)
					}
				}
			}
		}

		fmt.Print("Notes: ")
		if scanner.Scan() {
			c.Notes = strings.TrimSpace(scanner.Text())
		}

		if err := store.Add(c); err != nil {
			return fmt.Errorf("adding contact: %w", err)
		}

		fmt.Printf("Added %s\n", c.Name)
		return nil
	},
}

var contactsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import contacts from a CSV or vCard file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		store, err := openContactStore()
		if err != nil {
			return err
		}

		var added int
		var warnings []string

		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".csv":
			added, warnings, err = store.ImportCSV(path)
		case ".vcf":
			added, warnings, err = store.ImportVCard(path)
		default:
			return fmt.Errorf("unsupported file format %q (use .csv or .vcf)", ext)
		}

		if err != nil {
			return fmt.Errorf("importing contacts: %w", err)
		}

		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
		}

		fmt.Printf("Imported %d contact(s)\n", added)
		return nil
	},
}

var contactsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search contacts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}
		resolver, err := openResolver(dir)
		if err != nil {
			return err
		}

		results := resolver.Search(query)
		if len(results) == 0 {
			fmt.Printf("No contacts matching %q\n", query)
			return nil
		}

		fmt.Printf("Found %d contact(s):\n\n", len(results))
		for _, c := range results {
			fmt.Printf("  %s\n", contactLine(c))
		}
		return nil
	},
}

var contactsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a contact's details",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}
		resolver, err := openResolver(dir)
		if err != nil {
			return err
		}

		c := lookupContact(resolver, name)
		if c == nil {
			return fmt.Errorf("contact %q not found", name)
		}

		fmt.Printf("\n  Name:     %s\n", c.Name)
		if c.Email != "" {
			fmt.Printf("  Email:    %s\n", c.Email)
		}
		if c.Company != "" {
			fmt.Printf("  Company:  %s\n", c.Company)
		}
		if c.Title != "" {
			fmt.Printf("  Title:    %s\n", c.Title)
		}
		if c.Phone != "" {
			fmt.Printf("  Phone:    %s\n", c.Phone)
		}
		if len(c.Tags) > 0 {
			fmt.Printf("  Tags:     %s\n", strings.Join(c.Tags, ", "))
		}
		if c.Notes != "" {
			fmt.Printf("  Notes:    %s\n", c.Notes)
		}
		if c.Added != "" {
			fmt.Printf("  Added:    %s\n", c.Added)
		}

		// Show the matched account, when any.
		if rc := resolver.ContextFor(c); rc.Account != nil {
			fmt.Printf("  Account:  %s", rc.Account.Name)
			if !rc.Energy.Empty() {
				var facts []string
				if rc.Energy.Supplier != "" {
					facts = append(facts, rc.Energy.Supplier)
				}
				if rc.Energy.CurrentRate != "" {
					facts = append(facts, "$"+rc.Energy.CurrentRate+"/kWh")
				}
				if rc.Energy.ContractEnd != "" {
					facts = append(facts, "ends "+rc.Energy.ContractEnd)
				}
				fmt.Printf(" (%s)", strings.Join(facts, ", "))
			}
			fmt.Println()
		}
		fmt.Println()
		return nil
	},
}

var contactsRemoveCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a contact",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}
		resolver, err := openResolver(dir)
		if err != nil {
			return err
		}

		c := lookupContact(resolver, name)
		if c == nil {
			// Try as a literal slug
			if err := resolver.Contacts.Remove(name); err != nil {
				return fmt.Errorf("contact %q not found", name)
			}
			fmt.Printf("Removed %s\n", name)
			return nil
		}

		if err := resolver.Contacts.Remove(crm.SlugFor(c.Name)); err != nil {
			return fmt.Errorf("removing contact: %w", err)
		}

		fmt.Printf("Removed %s\n", c.Name)
		return nil
	},
}

// lookupContact resolves a name, slug, or search fragment to a contact.
// Exact slug match wins; otherwise the top search hit is used.
func lookupContact(resolver *crm.Resolver, name string) *crm.Contact {
	if c, err := resolver.Contacts.Get(crm.SlugFor(name)); err == nil {
		return c
	}
	if results := resolver.Search(name); len(results) > 0 {
		return results[0]
	}
	return nil
}

// openContactStore opens the contact store from the standard location.
func openContactStore() (*crm.ContactStore, error) {
	dir, err := config.ProspectorDir()
	if err != nil {
		return nil, err
	}
	return crm.NewContactStore(filepath.Join(dir, "contacts"))
}
