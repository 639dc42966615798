// Package directory fetches contact and account collections from a
// remote directory service. The service is a document-collection API:
// Prospector always fetches entire collections and filters client-side,
// so one Fetch per collection is the whole wire surface.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
)

// Source fetches remote collections. Implemented by Directory and by the
// cache decorator.
type Source interface {
	FetchContacts(ctx context.Context) ([]crm.Contact, error)
	FetchAccounts(ctx context.Context) ([]crm.Account, error)
}

// Directory is a REST client for the remote collection service.
type Directory struct {
	endpoint string
	auth     config.AuthConfig
	client   *http.Client
}

// New creates a directory client from config.
func New(cfg config.DirectoryConfig) *Directory {
	return &Directory{
		endpoint: cfg.Endpoint,
		auth:     cfg.Auth,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client (used in tests).
func (d *Directory) SetHTTPClient(c *http.Client) {
	d.client = c
}

// FetchContacts retrieves the full contacts collection.
func (d *Directory) FetchContacts(ctx context.Context) ([]crm.Contact, error) {
	var contacts []crm.Contact
	if err := d.fetch(ctx, "/contacts", &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// FetchAccounts retrieves the full accounts collection.
func (d *Directory) FetchAccounts(ctx context.Context) ([]crm.Account, error) {
	var accounts []crm.Account
	if err := d.fetch(ctx, "/accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (d *Directory) fetch(ctx context.Context, path string, out any) error {
	if d.endpoint == "" {
		return fmt.Errorf("no directory endpoint configured")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", d.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	d.applyAuth(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		snippet := body
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return fmt.Errorf("fetching %s: HTTP %d: %s", path, resp.StatusCode, snippet)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (d *Directory) applyAuth(req *http.Request) {
	switch d.auth.Method {
	case "api_key_header":
		header := d.auth.Header
		if header == "" {
			header = "apikey"
		}
		req.Header.Set(header, d.auth.Key)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+d.auth.Token)
	}
}
