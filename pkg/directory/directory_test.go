package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
)

func TestFetchContacts(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		json.NewEncoder(w).Encode([]crm.Contact{
			{Name: "Dana Whitfield", Email: "dana@acme.example", Company: "Acme Corp"},
		})
	}))
	defer server.Close()

	d := New(config.DirectoryConfig{
		Endpoint: server.URL,
		Auth:     config.AuthConfig{Method: "api_key_header", Key: "secret"},
	})
	contacts, err := d.FetchContacts(context.Background())
	if err != nil {
		t.Fatalf("FetchContacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Email != "dana@acme.example" {
		t.Errorf("contacts = %#v", contacts)
	}
	if gotPath != "/contacts" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("apikey header = %q", gotKey)
	}
}

func TestFetchAccountsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode([]crm.Account{
			{Name: "Acme Corp", Energy: crm.EnergyFacts{CurrentRate: "0.062"}},
		})
	}))
	defer server.Close()

	d := New(config.DirectoryConfig{
		Endpoint: server.URL,
		Auth:     config.AuthConfig{Method: "bearer", Token: "tok"},
	})
	accounts, err := d.FetchAccounts(context.Background())
	if err != nil {
		t.Fatalf("FetchAccounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Energy.CurrentRate != "0.062" {
		t.Errorf("accounts = %#v", accounts)
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	d := New(config.DirectoryConfig{Endpoint: server.URL})
	if _, err := d.FetchContacts(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchNoEndpoint(t *testing.T) {
	d := New(config.DirectoryConfig{})
	if _, err := d.FetchContacts(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
