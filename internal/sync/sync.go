// Package sync pulls remote collections from the portal into the local
// snapshot cache.
package sync

import (
	"context"
	"fmt"
	"os"

	"github.com/mialhq/recapctl/internal/db"
	"github.com/mialhq/recapctl/internal/portal"
	"github.com/mialhq/recapctl/internal/types"
)

// Pull fetches mailboxes and profiles (and, when admin is set, leads)
// and replaces the cached collections. Per-collection failures are
// recorded in the summary rather than aborting the rest.
func Pull(ctx context.Context, store *db.DB, client *portal.Client, admin, quiet bool) (*types.SyncSummary, error) {
	summary := &types.SyncSummary{}

	boxes, err := client.MyMailboxes(ctx)
	result := types.SyncResult{Collection: "mailboxes"}
	if err != nil {
		result.Error = err.Error()
		reportErr(quiet, "mailboxes", err)
	} else {
		if err := store.ReplaceMailboxes(boxes); err != nil {
			return nil, fmt.Errorf("cache mailboxes: %w", err)
		}
		result.Fetched = len(boxes)
	}
	summary.Collections = append(summary.Collections, result)
	summary.Total += result.Fetched

	profiles, err := client.MyProfiles(ctx)
	result = types.SyncResult{Collection: "profiles"}
	if err != nil {
		result.Error = err.Error()
		reportErr(quiet, "profiles", err)
	} else {
		if err := store.ReplaceProfiles(profiles); err != nil {
			return nil, fmt.Errorf("cache profiles: %w", err)
		}
		result.Fetched = len(profiles)
	}
	summary.Collections = append(summary.Collections, result)
	summary.Total += result.Fetched

	if admin {
		leads, err := client.AdminLeads(ctx)
		result = types.SyncResult{Collection: "leads"}
		if err != nil {
			result.Error = err.Error()
			reportErr(quiet, "leads", err)
		} else {
			if err := store.ReplaceLeads(leads); err != nil {
				return nil, fmt.Errorf("cache leads: %w", err)
			}
			result.Fetched = len(leads)
		}
		summary.Collections = append(summary.Collections, result)
		summary.Total += result.Fetched
	}

	return summary, nil
}

func reportErr(quiet bool, collection string, err error) {
	if !quiet {
		fmt.Fprintf(os.Stderr, "  ! %s: %v\n", collection, err)
	}
}
