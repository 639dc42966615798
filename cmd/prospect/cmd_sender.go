package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/sender"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(senderCmd)
	senderCmd.AddCommand(senderSetCmd)
}

var senderCmd = &cobra.Command{
	Use:   "sender",
	Short: "Show the sender profile",
	Long:  "The sender profile signs your drafts. Fields resolve through {{sender.field}} tokens, including ad-hoc fields like calendly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		p, err := sender.Load(dir)
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("No sender profile. Set one with 'prospect sender set <field> <value>'.")
			return nil
		}

		tokens := p.Tokens()
		keys := make([]string, 0, len(tokens))
		for k := range tokens {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %-12s %s\n", k, tokens[k])
		}
		return nil
	},
}

var senderSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a sender profile field",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		p, err := sender.Load(dir)
		if err != nil {
			return err
		}
		if p == nil {
			p = &sender.Profile{}
		}
		if p.Raw == nil {
			p.Raw = make(map[string]interface{})
		}

		field := strings.ToLower(args[0])
		value := strings.Join(args[1:], " ")
		p.Raw[field] = value
		applySenderField(p, field, value)

		if err := sender.Save(dir, p); err != nil {
			return err
		}
		fmt.Printf("Set sender.%s\n", field)
		return nil
	},
}

// applySenderField keeps the typed fields in step with the raw map so
// a later Save round-trips them.
func applySenderField(p *sender.Profile, field, value string) {
	switch field {
	case "first_name":
		p.FirstName = value
	case "last_name":
		p.LastName = value
	case "title":
		p.Title = value
	case "company":
		p.Company = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "brand":
		p.Brand = value
	}
}
