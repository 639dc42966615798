package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jcadam/prospector/pkg/cache"
	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/debug"
	"github.com/jcadam/prospector/pkg/directory"
	"github.com/spf13/cobra"
)

var syncNoCache bool

func init() {
	syncCmd.Flags().BoolVar(&syncNoCache, "no-cache", false, "Bypass the directory cache and fetch fresh records")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull contacts and accounts from the company directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfigQuiet(dir)
		if err != nil {
			return err
		}
		if cfg.Directory.Endpoint == "" {
			return fmt.Errorf("no directory endpoint configured; set directory.endpoint in %s", filepath.Join(dir, "config.yaml"))
		}

		remote := directory.New(cfg.Directory)
		client := httpClient(30 * time.Second)
		if t, ok := client.Transport.(*debug.Transport); ok {
			t.Redact(cfg.Directory.Auth.Header)
		}
		remote.SetHTTPClient(client)

		var src directory.Source = remote
		if cfg.Directory.CacheTTL > 0 {
			cached := cache.NewCachedDirectory(remote, filepath.Join(dir, "cache"), cfg.Directory.CacheTTL)
			if syncNoCache {
				cached.Invalidate()
			}
			src = cached
		}

		ctx := cmd.Context()
		contactsAdded, contactsUpdated, err := syncContacts(ctx, src, dir)
		if err != nil {
			return fmt.Errorf("syncing contacts: %w", err)
		}
		accountsAdded, accountsUpdated, err := syncAccounts(ctx, src, dir)
		if err != nil {
			return fmt.Errorf("syncing accounts: %w", err)
		}

		fmt.Printf("Contacts: %d new, %d updated\n", contactsAdded, contactsUpdated)
		fmt.Printf("Accounts: %d new, %d updated\n", accountsAdded, accountsUpdated)
		return nil
	},
}

// syncContacts merges remote contacts into the local store. Remote fields
// win; local-only fields (notes, tags) survive the merge.
func syncContacts(ctx context.Context, src directory.Source, dir string) (added, updated int, err error) {
	remote, err := src.FetchContacts(ctx)
	if err != nil {
		return 0, 0, err
	}

	store, err := crm.NewContactStore(filepath.Join(dir, "contacts"))
	if err != nil {
		return 0, 0, err
	}

	for i := range remote {
		rc := remote[i]
		if rc.Name == "" {
			fmt.Fprintf(os.Stderr, "warning: skipping directory contact with no name (id %s)\n", rc.ID)
			continue
		}
		slugName := crm.SlugFor(rc.Name)
		existing, getErr := store.Get(slugName)
		if getErr != nil {
			if addErr := store.Add(&rc); addErr != nil {
				return added, updated, addErr
			}
			added++
			continue
		}
		merged := mergeContact(existing, &rc)
		if putErr := store.Put(slugName, merged); putErr != nil {
			return added, updated, putErr
		}
		updated++
	}
	return added, updated, nil
}

func syncAccounts(ctx context.Context, src directory.Source, dir string) (added, updated int, err error) {
	remote, err := src.FetchAccounts(ctx)
	if err != nil {
		return 0, 0, err
	}

	store, err := crm.NewAccountStore(filepath.Join(dir, "accounts"))
	if err != nil {
		return 0, 0, err
	}

	for i := range remote {
		ra := remote[i]
		if ra.Name == "" {
			fmt.Fprintf(os.Stderr, "warning: skipping directory account with no name (id %s)\n", ra.ID)
			continue
		}
		slugName := crm.SlugFor(ra.Name)
		existing, getErr := store.Get(slugName)
		if getErr != nil {
			if addErr := store.Add(&ra); addErr != nil {
				return added, updated, addErr
			}
			added++
			continue
		}
		merged := mergeAccount(existing, &ra)
		if putErr := store.Put(slugName, merged); putErr != nil {
			return added, updated, putErr
		}
		updated++
	}
	return added, updated, nil
}

func mergeContact(local, remote *crm.Contact) *crm.Contact {
	out := *remote
	if out.Notes == "" {
		out.Notes = local.Notes
	}
	if len(out.Tags) == 0 {
		out.Tags = local.Tags
	}
	if out.Added == "" {
		out.Added = local.Added
	}
	return &out
}

func mergeAccount(local, remote *crm.Account) *crm.Account {
	out := *remote
	if out.Notes == "" {
		out.Notes = local.Notes
	}
	if out.Energy.Empty() {
		out.Energy = local.Energy
	}
	if out.Added == "" {
		out.Added = local.Added
	}
	return &out
}
