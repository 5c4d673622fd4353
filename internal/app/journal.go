package app

import (
	"log"
	"time"
)

// Journal retention policy.
const (
	// JournalRetention is how long gesture events stay in the journal.
	JournalRetention = 7 * 24 * time.Hour
	// PruneInterval is how often the journal pruner runs.
	PruneInterval = time.Hour
)

// runJournalPruner periodically removes journal entries older than the
// retention window. The journal exists for diagnostics, not audit; letting
// it grow without bound would eventually dominate the database.
func (a *App) runJournalPruner(stopCh <-chan struct{}) {
	if a.config.Store == nil {
		return
	}

	ticker := time.NewTicker(PruneInterval)
	defer ticker.Stop()

	// Prune once at startup so a long-idle install recovers immediately.
	a.pruneJournal()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.pruneJournal()
		}
	}
}

func (a *App) pruneJournal() {
	cutoff := time.Now().Add(-JournalRetention)
	removed, err := a.config.Store.Events().DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("app: journal prune failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("app: pruned %d journal entries", removed)
	}
}
