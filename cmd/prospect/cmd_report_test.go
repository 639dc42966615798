package main

import (
	"testing"

	"github.com/jcadam/prospector/pkg/crm"
)

func TestContactsForAccountByID(t *testing.T) {
	account := &crm.Account{ID: "acct-1", Name: "Acme Corp"}
	all := []*crm.Contact{
		{Name: "Dana Smith", AccountID: "acct-1"},
		{Name: "Lee Park", AccountID: "acct-2"},
	}

	got := contactsForAccount(account, all)
	if len(got) != 1 || got[0].Name != "Dana Smith" {
		t.Errorf("got %d contacts, want just Dana Smith", len(got))
	}
}

func TestContactsForAccountByCompanyName(t *testing.T) {
	account := &crm.Account{Name: "Acme Corp"}
	all := []*crm.Contact{
		{Name: "Dana Smith", Company: "Acme Corp"},
		{Name: "Lee Park", Company: "Reed Logistics"},
		{Name: "Sam Hill"},
	}

	got := contactsForAccount(account, all)
	if len(got) != 1 || got[0].Name != "Dana Smith" {
		t.Errorf("got %d contacts, want just Dana Smith", len(got))
	}
}

func TestContactsForAccountIDBeatsCompany(t *testing.T) {
	account := &crm.Account{ID: "acct-1", Name: "Acme Corp"}
	all := []*crm.Contact{
		{Name: "Dana Smith", AccountID: "acct-1", Company: "Acme Corp"},
	}

	got := contactsForAccount(account, all)
	if len(got) != 1 {
		t.Fatalf("got %d contacts, want 1 (no duplicate)", len(got))
	}
}
