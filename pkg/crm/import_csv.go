package crm

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ParseCSV reads a CSV file and returns parsed contacts and any warnings
// (e.g., unmapped columns). Recognized headers (case-insensitive):
// Name, First Name, Last Name, Email, Email Address, Company,
// Organization, Title, Job Title, Phone, Phone Number, Account,
// Account ID, Tags, Notes.
func ParseCSV(path string) ([]*Contact, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing CSV: %w", err)
	}

	if len(records) < 1 {
		return nil, nil, nil
	}

	// Map header names to column indices
	header := records[0]
	colMap := make(map[string]int)
	var warnings []string

	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		switch normalized {
		case "name", "full name":
			colMap["name"] = i
		case "first name", "firstname":
			colMap["first_name"] = i
		case "last name", "lastname":
			colMap["last_name"] = i
		case "email", "email address", "e-mail":
			colMap["email"] = i
		case "company", "organization", "org":
			colMap["company"] = i
		case "title", "job title", "jobtitle":
			colMap["title"] = i
		case "phone", "phone number", "telephone":
			colMap["phone"] = i
		case "account", "account id", "accountid":
			colMap["account_id"] = i
		case "tags", "labels", "categories":
			colMap["tags"] = i
		case "notes", "note":
			colMap["notes"] = i
		default:
			if normalized != "" {
				warnings = append(warnings, fmt.Sprintf("unmapped column: %q", h))
			}
		}
	}

	cell := func(row []string, key string) string {
		if idx, ok := colMap[key]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var contacts []*Contact
	for _, row := range records[1:] {
		c := &Contact{
			Name:      cell(row, "name"),
			FirstName: cell(row, "first_name"),
			LastName:  cell(row, "last_name"),
			Email:     cell(row, "email"),
			Company:   cell(row, "company"),
			Title:     cell(row, "title"),
			Phone:     cell(row, "phone"),
			AccountID: cell(row, "account_id"),
			Notes:     cell(row, "notes"),
		}

		// Combine first + last name if "name" column wasn't present or is empty
		if c.Name == "" {
			var parts []string
			if c.FirstName != "" {
				parts = append(parts, c.FirstName)
			}
			if c.LastName != "" {
				parts = append(parts, c.LastName)
			}
			c.Name = strings.Join(parts, " ")
		}

		if raw := cell(row, "tags"); raw != "" {
			for _, t := range strings.Split(raw, ";") {
				t = strings.TrimSpace(t)
				if t != "" {
					c.Tags = append(c.Tags, t)
				}
			}
		}

		// Skip rows with no name
		if c.Name == "" {
			continue
		}

		contacts = append(contacts, c)
	}

	return contacts, warnings, nil
}

// ImportCSV parses a CSV file and adds each contact to the store.
// Returns the number of contacts successfully added and any warnings.
func (s *ContactStore) ImportCSV(path string) (int, []string, error) {
	contacts, warnings, err := ParseCSV(path)
	if err != nil {
		return 0, warnings, err
	}

	added := 0
	for _, c := range contacts {
		if err := s.Add(c); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %q: %v", c.Name, err))
			continue
		}
		added++
	}

	return added, warnings, nil
}
