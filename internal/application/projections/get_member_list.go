package projections

import (
	"context"

	"youthreg/internal/domain/member"
)

// GetMemberListQuery carries the directory view's filter criteria.
type GetMemberListQuery struct {
	Filter member.FilterSpec
}

// GetMemberListResult carries the query result. Total is the unfiltered
// collection size so the view can render "N of M members".
type GetMemberListResult struct {
	Members []member.Member
	Total   int
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	MemberStore MemberStore
}

// QueryGetMemberList retrieves the member collection narrowed by the active
// filter criteria, preserving store order.
// PRE: deps.MemberStore is non-nil
// POST: Result.Members is a subsequence of the stored collection
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	members, err := deps.MemberStore.LoadAll(ctx)
	if err != nil {
		return GetMemberListResult{}, err
	}

	filtered := member.ApplyFilter(members, query.Filter)
	return GetMemberListResult{Members: filtered, Total: len(members)}, nil
}
