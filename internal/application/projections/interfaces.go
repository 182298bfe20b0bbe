package projections

import (
	"context"

	"youthreg/internal/domain/member"
)

// MemberStore defines the store interface shared by the read-side
// projections. Projections only read snapshots, never mutate.
type MemberStore interface {
	LoadAll(ctx context.Context) ([]member.Member, error)
}
