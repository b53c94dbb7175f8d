package controller

// PauseWatcher pauses the watcher at path.
func (c *Controller) PauseWatcher(path string) {
	c.cmdCh <- msgPause{path: path}
}

// ResumeWatcher resumes the watcher at path. When forceImmediate is false
// (the queue drainer's own calling convention) and another root is
// currently the active indexer, a watcher that never finished its initial
// scan is re-enqueued instead of started (§4.5 "resume_watcher"). A watcher
// that has already completed its initial scan resumes its live event
// consumption unconditionally, since the active-indexer invariant only
// constrains initial scans.
func (c *Controller) ResumeWatcher(path string, forceImmediate bool) {
	c.cmdCh <- msgResume{path: path, forceImmediate: forceImmediate}
}

// PauseAll pauses every watcher.
func (c *Controller) PauseAll() {
	c.cmdCh <- msgPauseAll{}
}

// ResumeAll resumes every watcher, using the same forceImmediate semantics
// as ResumeWatcher for each.
func (c *Controller) ResumeAll(forceImmediate bool) {
	c.cmdCh <- msgResumeAll{forceImmediate: forceImmediate}
}

// RestartWatcher pauses, sleeps 1s, then resumes the watcher at path
// (§4.5 "restart_watcher").
func (c *Controller) RestartWatcher(path string) {
	c.cmdCh <- msgRestart{path: path}
}
