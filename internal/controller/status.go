package controller

import (
	"github.com/atomicobject/diskdex/internal/status"
)

// ensureStatusChan lazily creates statusCh on first use (via
// StatusUpdates()); buffered so the throttled emit in status.Manager never
// blocks on a slow consumer.
func (c *Controller) ensureStatusChan() chan status.Snapshot {
	c.statusChOnce.Do(func() {
		c.statusCh = make(chan status.Snapshot, 8)
	})
	return c.statusCh
}

// StatusUpdates returns the channel of throttled aggregate Snapshots
// (§4.5's status propagation, throttled by the Status Manager).
func (c *Controller) StatusUpdates() <-chan status.Snapshot {
	return c.ensureStatusChan()
}

// GetStatus synchronously computes and returns the current aggregate
// status, bypassing the throttle (§4.5 "get_status").
func (c *Controller) GetStatus() status.Snapshot {
	return c.computeSnapshot()
}

// ForceUpdate clears the Status Manager's throttle timer and emits
// immediately (§4.5 "force_update").
func (c *Controller) ForceUpdate() {
	c.status.ForceUpdate()
}

func (c *Controller) computeSnapshot() status.Snapshot {
	reply := make(chan []watcherEntry, 1)
	c.cmdCh <- msgGetFolderStatuses{reply: reply}
	entries := <-reply

	folders := make([]status.FolderStatus, 0, len(entries))
	for _, e := range entries {
		folders = append(folders, e.w.GetStatus())
	}
	return status.Aggregate(folders)
}

func (c *Controller) emitSnapshot(snap status.Snapshot) {
	select {
	case c.ensureStatusChan() <- snap:
	default:
	}
}
