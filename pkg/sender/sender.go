// Package sender handles the sender profile (~/.prospector/sender.yaml).
//
// The profile declares the salesperson's identity once. These fields back
// {{sender.field}} token resolution on send paths, the synthesized
// closing, and the brand line in HTML-document drafts.
package sender

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile holds the sender's identity. Well-known fields are typed;
// everything (including those) lives in the Raw map so ad-hoc fields like
// "calendly" resolve through {{sender.calendly}} identically.
type Profile struct {
	FirstName string `yaml:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`
	Title     string `yaml:"title,omitempty"`
	Company   string `yaml:"company,omitempty"`
	Email     string `yaml:"email,omitempty"`
	Phone     string `yaml:"phone,omitempty"`
	Brand     string `yaml:"brand,omitempty"` // signature line for HTML documents; defaults to Company

	// Raw holds every field from the YAML including the typed ones.
	// This is the source of truth for token resolution.
	Raw map[string]interface{} `yaml:"-"`
}

const filename = "sender.yaml"

// Load reads the profile from prospectorDir/sender.yaml. Returns
// (nil, nil) when the file does not exist; the profile is optional and
// sender tokens then resolve empty.
func Load(prospectorDir string) (*Profile, error) {
	path := filepath.Join(prospectorDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sender profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing sender profile: %w", err)
	}

	// Second pass: unmarshal into a raw map so ad-hoc fields are
	// available for token resolution too.
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing sender profile raw map: %w", err)
	}
	p.Raw = raw

	return &p, nil
}

// Save writes the profile to prospectorDir/sender.yaml, marshaling the
// Raw map to preserve ad-hoc fields.
func Save(prospectorDir string, p *Profile) error {
	if err := os.MkdirAll(prospectorDir, 0o755); err != nil {
		return fmt.Errorf("creating prospector directory: %w", err)
	}

	raw := p.Raw
	if raw == nil {
		raw = make(map[string]interface{})
	}
	set := func(key, val string) {
		if val != "" {
			raw[key] = val
		}
	}
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("title", p.Title)
	set("company", p.Company)
	set("email", p.Email)
	set("phone", p.Phone)
	set("brand", p.Brand)

	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling sender profile: %w", err)
	}

	header := "# Prospector sender profile\n" +
		"# Fields back {{sender.field_name}} tokens in drafts and templates\n\n"

	path := filepath.Join(prospectorDir, filename)
	return os.WriteFile(path, []byte(header+string(data)), 0o644)
}

// Resolve returns a string value for the given token key. full_name is
// derived when not set explicitly; brand falls back to company. Missing
// keys resolve ("", false).
func (p *Profile) Resolve(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	switch key {
	case "full_name":
		if v, ok := p.rawGet("full_name"); ok {
			return v, true
		}
		full := strings.TrimSpace(p.FirstName + " " + p.LastName)
		return full, full != ""
	case "brand":
		if v, ok := p.rawGet("brand"); ok {
			return v, true
		}
		if p.Company != "" {
			return p.Company, true
		}
		return "", false
	}
	return p.rawGet(key)
}

// Tokens returns the profile as a flat token map for the draft
// formatter, including the derived full_name and brand values.
func (p *Profile) Tokens() map[string]string {
	tokens := make(map[string]string)
	if p == nil {
		return tokens
	}
	for key := range p.Raw {
		if v, ok := p.Resolve(key); ok {
			tokens[key] = v
		}
	}
	for _, key := range []string{"full_name", "brand"} {
		if v, ok := p.Resolve(key); ok {
			tokens[key] = v
		}
	}
	return tokens
}

func (p *Profile) rawGet(key string) (string, bool) {
	if p.Raw == nil {
		return "", false
	}
	val, ok := p.Raw[key]
	if !ok {
		return "", false
	}
	return formatValue(val), true
}

// formatValue converts a raw YAML value to a display string. Lists
// become comma-separated.
func formatValue(val interface{}) string {
	switch v := val.(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
