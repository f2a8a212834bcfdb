package reporting

import (
	"time"

	"creator-payments/internal/models"
)

// Bucket is one point in a trend series. Period is "2006-01-02" for daily
// series and "2006-01" for monthly.
type Bucket struct {
	Period       string `json:"period"`
	VolumeCents  int64  `json:"volumeCents"`
	FeesCents    int64  `json:"feesCents"`
	PayoutsCents int64  `json:"payoutsCents"`
	Count        int64  `json:"count"`
}

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// BucketDaily buckets payments into one entry per calendar day from start
// to end inclusive, in the given business timezone. Days with no payments
// are present and zero-valued so dashboards render a continuous series. A
// payment's day is OccurredAt in the business timezone, not UTC: a charge
// at 23:30 UTC in a UTC+1 zone belongs to the next local day.
func BucketDaily(rows []models.Payment, start, end time.Time, loc *time.Location) []Bucket {
	return bucketize(rows, start, end, loc, dayLayout, nextDay)
}

// BucketMonthly is the monthly analog of BucketDaily.
func BucketMonthly(rows []models.Payment, start, end time.Time, loc *time.Location) []Bucket {
	return bucketize(rows, start, end, loc, monthLayout, nextMonth)
}

// nextDay advances by one calendar day in loc. Re-deriving the date
// components through time.Date keeps the iteration keyed to the calendar,
// so DST offset changes can never skip or duplicate a day.
func nextDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

func nextMonth(t time.Time, loc *time.Location) time.Time {
	y, m, _ := t.In(loc).Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
}

func bucketize(rows []models.Payment, start, end time.Time, loc *time.Location, layout string, advance func(time.Time, *time.Location) time.Time) []Bucket {
	startKey := start.In(loc).Format(layout)
	endKey := end.In(loc).Format(layout)
	if startKey > endKey {
		return []Bucket{}
	}

	var buckets []Bucket
	index := make(map[string]int)
	for t := start.In(loc); ; t = advance(t, loc) {
		key := t.Format(layout)
		if _, seen := index[key]; !seen {
			index[key] = len(buckets)
			buckets = append(buckets, Bucket{Period: key})
		}
		if key == endKey {
			break
		}
	}

	for i := range rows {
		row := &rows[i]
		key := row.OccurredAt.In(loc).Format(layout)
		pos, ok := index[key]
		if !ok {
			// Outside the requested window.
			continue
		}
		b := &buckets[pos]
		b.VolumeCents += VolumeContribution(row)
		if row.FeeCents != nil {
			b.FeesCents += *row.FeeCents
		}
		if row.NetCents != nil {
			b.PayoutsCents += *row.NetCents
		}
		b.Count++
	}

	return buckets
}
