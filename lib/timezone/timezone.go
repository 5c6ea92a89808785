package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Fortaleza")
	if err != nil {
		panic(err)
	}
}

// the portal publishes dates in local (Fortaleza) time regardless of
// where the service runs
func Now() time.Time {
	return time.Now().In(Location)
}

// FormatISO renders t in the portal's timezone as RFC 3339 with
// millisecond precision.
func FormatISO(t time.Time) string {
	return t.In(Location).Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseDate parses a DD/MM/YYYY date in the portal's timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("02/01/2006", s, Location)
}
