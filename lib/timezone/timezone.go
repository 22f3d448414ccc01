package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Puerto_Rico")
	if err != nil {
		panic(err)
	}
}

// the outage page publishes in Puerto Rico civil time, so capture
// timestamps are pinned to it regardless of where the job runs.
func Now() time.Time {
	return time.Now().In(Location)
}

// InLocal interprets the wall clock of t (ignoring its zone) as
// Puerto Rico civil time.
func InLocal(t time.Time) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		Location,
	)
}
