package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/field-scheduler/internal/timezone"
)

// parseTimestamp reads RFC3339 or a wall time in loc.
func parseTimestamp(loc *time.Location, s string) (time.Time, error) {
	return timezone.ParseTimestamp(s, loc)
}

// parseDayRange reads inclusive YYYY-MM-DD "from"/"to" query params into the
// half-open [from 00:00, to+1 00:00) range. Missing params default to
// fallbackDays starting today.
func parseDayRange(c *gin.Context, loc *time.Location, fallbackDays int) (time.Time, time.Time, bool) {
	today := timezone.NowIn(loc.String())
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, fallbackDays)

	if s := c.Query("from"); s != "" {
		d, err := timezone.ParseDate(s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		from = d
		to = d.AddDate(0, 0, fallbackDays)
	}
	if s := c.Query("to"); s != "" {
		d, err := timezone.ParseDate(s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		to = d.AddDate(0, 0, 1)
	}
	return from, to, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
