package core

import (
	"time"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/schema"
)

// runTracker records one run in the run store. A nil store disables tracking.
type runTracker struct {
	store contract.RunStore
	id    int64
}

func beginTracking(mgr contract.StoreManager, kind schema.RunKind, configParams map[string]any) *runTracker {
	t := &runTracker{}
	if mgr == nil {
		return t
	}
	t.store = mgr.GetRunStore()
	if t.store == nil {
		return t
	}
	id, err := t.store.BeginRun(kind, time.Now(), configParams)
	if err != nil {
		log.Warnw("Run tracking initialization failed", "error", err)
		t.store = nil
		return t
	}
	t.id = id
	return t
}

// finish stores the row failures and closes the run with the exit code of runErr.
func (t *runTracker) finish(report *schema.RunReport, runErr error) {
	if t.store == nil || t.id <= 0 {
		return
	}
	if report != nil {
		for _, o := range report.Failed() {
			if err := t.store.RecordRowFailure(t.id, o); err != nil {
				log.Warnw("Failed to record row failure", "row", o.Row, "error", err)
			}
		}
	}
	if err := t.store.EndRun(t.id, time.Now(), report, contract.ExitCode(runErr)); err != nil {
		log.Warnw("Failed to finalize run tracking", "error", err)
	}
}
