package commands

import "time"

// clock stamps transitions. Timestamps are stored in UTC with microsecond
// precision to round-trip through Postgres unchanged.
var clock = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
