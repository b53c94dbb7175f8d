package controller

import "time"

// timeAfter1s is the restart back-off named in §4.4/§4.5 ("pause → 1s
// sleep → resume"), pulled out as a seam so tests can shrink it via a
// build-time substitute if needed.
func timeAfter1s() <-chan time.Time {
	return time.After(time.Second)
}
