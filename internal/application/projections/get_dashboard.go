package projections

import (
	"context"
	"time"

	"youthreg/internal/domain/member"
)

// recentMemberCount is how many of the newest members the dashboard shows.
const recentMemberCount = 5

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Now time.Time
}

// GetDashboardResult carries the dashboard view data: headline counters plus
// the most recently registered members in store order.
type GetDashboardResult struct {
	Summary SummaryCounts
	Recent  []member.Member
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	MemberStore MemberStore
}

// QueryGetDashboard computes the dashboard counters and recent registrations.
// PRE: query.Now is non-zero; deps.MemberStore is non-nil
// POST: len(Result.Recent) <= 5; Recent preserves store order (newest first)
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	members, err := deps.MemberStore.LoadAll(ctx)
	if err != nil {
		return GetDashboardResult{}, err
	}

	recent := members
	if len(recent) > recentMemberCount {
		recent = recent[:recentMemberCount]
	}

	return GetDashboardResult{
		Summary: Summary(members, query.Now),
		Recent:  recent,
	}, nil
}
