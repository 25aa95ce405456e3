package extract

import (
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeDate parses a raw date string leniently and renders it as
// RFC 3339 in the publication's home timezone. A timestamp without an
// offset is assumed to already be in the home timezone; one with an
// offset is converted. An empty or unparseable input falls back to the
// current instant, so the result is never absent and always carries an
// explicit offset.
func NormalizeDate(raw string, loc *time.Location, now func() time.Time) string {
	if raw != "" {
		if ts, err := dateparse.ParseIn(raw, loc); err == nil {
			return ts.In(loc).Format(time.RFC3339)
		}
	}
	return now().In(loc).Format(time.RFC3339)
}
