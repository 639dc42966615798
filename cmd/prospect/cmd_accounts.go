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
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsShowCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage your account book",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}

		list, err := store.List()
		if err != nil {
			return fmt.Errorf("listing accounts: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No accounts. Use 'prospect accounts add' or 'prospect sync'.")
			return nil
		}

		for _, a := range list {
			line := a.Name
			if a.Industry != "" {
				line += "  (" + a.Industry + ")"
			}
			if a.Energy.Supplier != "" {
				line += "  " + a.Energy.Supplier
			}
			if a.Energy.CurrentRate != "" {
				line += "  $" + crm.NormalizeRate(a.Energy.CurrentRate) + "/kWh"
			}
			fmt.Printf("  %s\n", line)
		}
		fmt.Printf("\n%d account(s)\n", len(list))
		return nil
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAccountStore()
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		a := &crm.Account{}

		fmt.Print("Name (required): ")
		if !scanner.Scan() {
			return nil
		}
		a.Name = strings.TrimSpace(scanner.Text())
		if a.Name == "" {
			return fmt.Errorf("name is required")
		}

		fmt.Print("Industry: ")
		if scanner.Scan() {
			a.Industry = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Email domain (e.g. acme.com): ")
		if scanner.Scan() {
			a.Domain = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Website: ")
		if scanner.Scan() {
			a.Website = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Current supplier: ")
		if scanner.Scan() {
			a.Energy.Supplier = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Current rate ($/kWh): ")
		if scanner.Scan() {
			a.Energy.CurrentRate = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Contract end (YYYY-MM-DD): ")
		if scanner.Scan() {
			a.Energy.ContractEnd = strings.TrimSpace(scanner.Text())
		}

		fmt.Print("Annual usage (e.g. 480,000 kWh/yr): ")
		if scanner.Scan() {
			a.Energy.Usage = strings.TrimSpace(scanner.Text())
		}

		if err := store.Add(a); err != nil {
			return fmt.Errorf("adding account: %w", err)
		}

		fmt.Printf("Added %s\n", a.Name)
		return nil
	},
}

var accountsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show an account's details",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		store, err := openAccountStore()
		if err != nil {
			return err
		}

		a, err := store.Get(crm.SlugFor(name))
		if err != nil {
			return fmt.Errorf("account %q not found", name)
		}

		fmt.Printf("\n  Name:          %s\n", a.Name)
		if a.Industry != "" {
			fmt.Printf("  Industry:      %s\n", a.Industry)
		}
		if a.Domain != "" {
			fmt.Printf("  Domain:        %s\n", a.Domain)
		}
		if a.Website != "" {
			fmt.Printf("  Website:       %s\n", a.Website)
		}
		if a.City != "" || a.State != "" {
			fmt.Printf("  Location:      %s\n", strings.TrimSpace(a.City+" "+a.State))
		}
		if a.Energy.Supplier != "" {
			fmt.Printf("  Supplier:      %s\n", a.Energy.Supplier)
		}
		if a.Energy.CurrentRate != "" {
			fmt.Printf("  Current rate:  $%s/kWh\n", crm.NormalizeRate(a.Energy.CurrentRate))
		}
		if a.Energy.ContractEnd != "" {
			fmt.Printf("  Contract end:  %s\n", a.Energy.ContractEnd)
		}
		if a.Energy.Usage != "" {
			fmt.Printf("  Usage:         %s\n", a.Energy.Usage)
		}
		if a.Notes != "" {
			fmt.Printf("  Notes:         %s\n", a.Notes)
		}
		fmt.Println()
		return nil
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove an account",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		store, err := openAccountStore()
		if err != nil {
			return err
		}

		if err := store.Remove(crm.SlugFor(name)); err != nil {
			return fmt.Errorf("account %q not found", name)
		}

		fmt.Printf("Removed %s\n", name)
		return nil
	},
}

// openAccountStore opens the account store from the standard location.
func openAccountStore() (*crm.AccountStore, error) {
	dir, err := config.ProspectorDir()
	if err != nil {
		return nil, err
	}
	return crm.NewAccountStore(filepath.Join(dir, "accounts"))
}
