package history

import (
	"fmt"
	"strings"
	"time"
)

// Period selects the window and bucket size of a growth series.
type Period string

// Supported periods.
const (
	Period7D  Period = "7D"
	Period30D Period = "30D"
	Period90D Period = "90D"
	Period1Y  Period = "1Y"
	PeriodAll Period = "ALL"
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

// ParsePeriod parses a period name. The empty string means 30D.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToUpper(strings.TrimSpace(s))); p {
	case "":
		return Period30D, nil
	case Period7D, Period30D, Period90D, Period1Y, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want 7D, 30D, 90D, 1Y or ALL)", s)
	}
}

// Point is one bucket of a growth series.
type Point struct {
	// Label names the bucket ("Mon 02", "Week of Jan 06", "Jan 2026").
	Label string `json:"label" yaml:"label"`

	// At is the time of the scan that represents the bucket.
	At time.Time `json:"at" yaml:"at"`

	// Size is the total size reported by that scan.
	Size int64 `json:"size" yaml:"size"`

	// Files is the file count reported by that scan.
	Files int64 `json:"files" yaml:"files"`
}

// Series buckets records (oldest first) into period-sized buckets ending
// at now. Each bucket is represented by its latest scan; empty buckets
// are omitted.
func Series(records []Record, period Period, now time.Time) []Point {
	var since time.Time
	switch period {
	case Period7D:
		since = now.AddDate(0, 0, -7)
	case Period90D:
		since = now.AddDate(0, 0, -90)
	case Period1Y:
		since = now.AddDate(0, 0, -365)
	case PeriodAll:
	default:
		since = now.AddDate(0, 0, -30)
	}

	var points []Point
	lastBucket := ""
	for _, rec := range records {
		if rec.ScannedAt.Before(since) || rec.ScannedAt.After(now) {
			continue
		}
		bucket, label := bucketOf(rec.ScannedAt, period)
		point := Point{Label: label, At: rec.ScannedAt, Size: rec.TotalSize, Files: rec.TotalFiles}
		if bucket == lastBucket {
			points[len(points)-1] = point
			continue
		}
		points = append(points, point)
		lastBucket = bucket
	}
	return points
}

func bucketOf(t time.Time, period Period) (key, label string) {
	switch period {
	case Period7D:
		return t.Format("2006-01-02"), t.Format("Mon 02")
	case Period90D, Period1Y, PeriodAll:
		return t.Format("2006-01"), t.Format("Jan 2006")
	default:
		year, week := t.ISOWeek()
		start := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
		return fmt.Sprintf("%d-W%02d", year, week), "Week of " + start.Format("Jan 02")
	}
}
