package projections

import (
	"context"
	"fmt"
	"strings"
	"time"

	"youthreg/internal/domain/member"
)

// Trend and distribution buckets. Counts are always >= 0.
type (
	// TrendBucket is one time window of a registration trend.
	TrendBucket struct {
		Label string
		Count int
	}

	// DistributionEntry is one slice of the gender distribution.
	DistributionEntry struct {
		Label string
		Count int
	}

	// AgeBucket is one fixed age band of the age distribution.
	AgeBucket struct {
		Range string
		Count int
	}
)

// SummaryCounts holds the headline registration counters.
type SummaryCounts struct {
	Total     int
	ThisWeek  int
	ThisMonth int
	ThisYear  int
}

// ageBands are the five fixed, non-overlapping, inclusive bands. Max < 0
// means unbounded. Ages below the first band are excluded from every count.
var ageBands = []struct {
	Range    string
	Min, Max int
}{
	{"10-12", 10, 12},
	{"13-15", 13, 15},
	{"16-18", 16, 18},
	{"19-21", 19, 21},
	{"22+", 22, -1},
}

// Summary counts members registered in the calendar week, month and year
// containing now. Weeks start on Monday.
// PRE: now is the reference instant
// POST: Total == len(members); all counters <= Total
func Summary(members []member.Member, now time.Time) SummaryCounts {
	ws := weekStart(now)
	we := ws.AddDate(0, 0, 6)

	counts := SummaryCounts{Total: len(members)}
	for _, m := range members {
		reg := m.RegistrationDate
		if withinDates(reg, ws, we) {
			counts.ThisWeek++
		}
		if reg.Year() == now.Year() && reg.Month() == now.Month() {
			counts.ThisMonth++
		}
		if reg.Year() == now.Year() {
			counts.ThisYear++
		}
	}
	return counts
}

// MonthlyTrend buckets registrations into the 12 calendar months ending at
// the month containing now, oldest first.
// POST: Returns exactly 12 buckets labeled by short month name
func MonthlyTrend(members []member.Member, now time.Time) []TrendBucket {
	buckets := make([]TrendBucket, 0, 12)
	for i := 11; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		count := 0
		for _, mem := range members {
			reg := mem.RegistrationDate
			if reg.Year() == m.Year() && reg.Month() == m.Month() {
				count++
			}
		}
		buckets = append(buckets, TrendBucket{Label: m.Format("Jan"), Count: count})
	}
	return buckets
}

// WeeklyTrend buckets registrations into the last 8 Monday-start weeks
// ending at the week containing now, oldest first. Each bucket spans
// [weekStart, weekStart+6 days] inclusive.
// POST: Returns exactly 8 buckets labeled "Week 1".."Week 8"
func WeeklyTrend(members []member.Member, now time.Time) []TrendBucket {
	current := weekStart(now)

	buckets := make([]TrendBucket, 0, 8)
	for i := 7; i >= 0; i-- {
		ws := current.AddDate(0, 0, -7*i)
		we := ws.AddDate(0, 0, 6)
		count := 0
		for _, m := range members {
			if withinDates(m.RegistrationDate, ws, we) {
				count++
			}
		}
		buckets = append(buckets, TrendBucket{
			Label: fmt.Sprintf("Week %d", 8-i),
			Count: count,
		})
	}
	return buckets
}

// GenderDistribution counts members per gender value actually present in the
// collection, in first-appearance order. No zero-count placeholders.
// POST: Labels are capitalized; sum of counts == len(members)
func GenderDistribution(members []member.Member) []DistributionEntry {
	index := make(map[string]int)
	var entries []DistributionEntry
	for _, m := range members {
		i, seen := index[m.Gender]
		if !seen {
			i = len(entries)
			index[m.Gender] = i
			entries = append(entries, DistributionEntry{Label: capitalize(m.Gender)})
		}
		entries[i].Count++
	}
	return entries
}

// AgeDistribution counts members per fixed age band. Members younger than
// the lowest band are silently excluded from every count.
// POST: Returns one bucket per band; sum of counts <= len(members)
func AgeDistribution(members []member.Member, now time.Time) []AgeBucket {
	buckets := make([]AgeBucket, len(ageBands))
	for i, band := range ageBands {
		buckets[i].Range = band.Range
	}
	for _, m := range members {
		age := m.Age(now)
		for i, band := range ageBands {
			if age >= band.Min && (band.Max < 0 || age <= band.Max) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// GetStatisticsQuery carries input for the statistics projection. Now is the
// reference instant; it is explicit so the projection stays pure.
type GetStatisticsQuery struct {
	Now time.Time
}

// GetStatisticsResult carries all statistics for the statistics view.
type GetStatisticsResult struct {
	Summary SummaryCounts
	Monthly []TrendBucket
	Weekly  []TrendBucket
	Gender  []DistributionEntry
	Age     []AgeBucket
}

// GetStatisticsDeps holds dependencies for GetStatistics.
type GetStatisticsDeps struct {
	MemberStore MemberStore
}

// QueryGetStatistics computes every distribution the statistics view renders
// from one snapshot of the collection.
// PRE: query.Now is non-zero; deps.MemberStore is non-nil
// POST: Identical output for identical (collection, Now) input
func QueryGetStatistics(ctx context.Context, query GetStatisticsQuery, deps GetStatisticsDeps) (GetStatisticsResult, error) {
	members, err := deps.MemberStore.LoadAll(ctx)
	if err != nil {
		return GetStatisticsResult{}, err
	}

	return GetStatisticsResult{
		Summary: Summary(members, query.Now),
		Monthly: MonthlyTrend(members, query.Now),
		Weekly:  WeeklyTrend(members, query.Now),
		Gender:  GenderDistribution(members),
		Age:     AgeDistribution(members, query.Now),
	}, nil
}

// weekStart returns the Monday (midnight UTC) of the week containing t.
func weekStart(t time.Time) time.Time {
	d := member.DateOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}

// withinDates reports whether d falls in the inclusive interval [start, end],
// all at date precision.
func withinDates(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
