package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/sender"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Prospector configuration",
	Long:  "Sets up ~/.prospector/ with a config.yaml, the standard data directories, and an optional sender profile.",
	RunE: func(cmd *cobra.Command, args []string) error {
		prospectorDir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		configPath := filepath.Join(prospectorDir, "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			fmt.Println("Configuration already exists at", configPath)
			fmt.Println("Edit it directly, or remove it and re-run 'prospect init'.")
			return nil
		}

		scanner := bufio.NewScanner(os.Stdin)
		cfg := &config.Config{}

		fmt.Println("Draft generation")
		cfg.Generation.Endpoint = promptDefault(scanner, "  Endpoint", "http://localhost:11434/api/generate")
		cfg.Generation.Fallback = prompt(scanner, "  Fallback endpoint (optional)")
		cfg.Generation.APIKey = prompt(scanner, "  API key (optional, ${VAR} expands from the environment)")

		fmt.Println("\nCompany directory (leave endpoint blank to skip 'prospect sync')")
		cfg.Directory.Endpoint = prompt(scanner, "  Endpoint")
		if cfg.Directory.Endpoint != "" {
			cfg.Directory.Auth.Method = promptDefault(scanner, "  Auth method (none, api_key_header, bearer)", "none")
			switch cfg.Directory.Auth.Method {
			case "api_key_header":
				cfg.Directory.Auth.Key = prompt(scanner, "  API key")
				cfg.Directory.Auth.Header = promptDefault(scanner, "  Header name", "apikey")
			case "bearer":
				cfg.Directory.Auth.Token = prompt(scanner, "  Bearer token")
			}
			cfg.Directory.CacheTTL = 3600
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := config.Save(prospectorDir, cfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		for _, sub := range []string{"contacts", "accounts", "tasks", "history", "reports", "cache"} {
			if err := os.MkdirAll(filepath.Join(prospectorDir, sub), 0o755); err != nil {
				return fmt.Errorf("creating %s directory: %w", sub, err)
			}
		}

		fmt.Println("\nSender profile (signs your drafts; enter to skip)")
		if p := promptSender(scanner); p != nil {
			if err := sender.Save(prospectorDir, p); err != nil {
				return fmt.Errorf("saving sender profile: %w", err)
			}
		}

		fmt.Printf("\nConfiguration saved to %s\n", configPath)
		fmt.Println("Directories created: contacts/, accounts/, tasks/, history/, reports/, cache/")
		fmt.Println("\nNext steps:")
		fmt.Println("  - Add a contact:  prospect contacts add")
		fmt.Println("  - Add an account: prospect accounts add")
		fmt.Println("  - Compose:        prospect compose <recipient>")

		return nil
	},
}

func promptSender(scanner *bufio.Scanner) *sender.Profile {
	p := &sender.Profile{}
	p.FirstName = prompt(scanner, "  First name")
	if p.FirstName == "" {
		return nil
	}
	p.LastName = prompt(scanner, "  Last name")
	p.Title = prompt(scanner, "  Title")
	p.Company = prompt(scanner, "  Company")
	p.Email = prompt(scanner, "  Email")
	p.Phone = prompt(scanner, "  Phone")
	return p
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func promptDefault(scanner *bufio.Scanner, label, def string) string {
	fmt.Printf("%s [%s]: ", label, def)
	if !scanner.Scan() {
		return def
	}
	v := strings.TrimSpace(scanner.Text())
	if v == "" {
		return def
	}
	return v
}
