package orchestrators

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"regexp"
	"testing"
	"time"

	"youthreg/internal/domain/member"
)

var seedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// mockMemberStore is an in-memory store for orchestrator tests.
type mockMemberStore struct {
	members      []member.Member
	loadErr      error
	replaceErr   error
	replaceCalls int
}

func (s *mockMemberStore) LoadAll(ctx context.Context) ([]member.Member, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.members, nil
}

func (s *mockMemberStore) ReplaceAll(ctx context.Context, members []member.Member) error {
	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.members = members
	return nil
}

func (s *mockMemberStore) Count(ctx context.Context) (int, error) {
	if s.loadErr != nil {
		return 0, s.loadErr
	}
	return len(s.members), nil
}

// TestGenerateRoster_Shape verifies count, field shape and constraints of the
// synthetic roster.
func TestGenerateRoster_Shape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	roster := GenerateRoster(RosterSeedCount, seedNow, rng)

	if len(roster) != RosterSeedCount {
		t.Fatalf("len=%d want %d", len(roster), RosterSeedCount)
	}

	phoneRe := regexp.MustCompile(`^\+1 \d{3}-\d{3}-\d{4}$`)
	idRe := regexp.MustCompile(`^member-\d+$`)
	seen := make(map[string]bool)

	for i, m := range roster {
		if !idRe.MatchString(m.ID) {
			t.Fatalf("roster[%d].ID=%q not member-N", i, m.ID)
		}
		if seen[m.ID] {
			t.Fatalf("duplicate id %q", m.ID)
		}
		seen[m.ID] = true

		if err := m.Validate(seedNow); err != nil {
			t.Fatalf("roster[%d] invalid: %v", i, err)
		}
		if !phoneRe.MatchString(m.Phone) {
			t.Fatalf("roster[%d].Phone=%q bad shape", i, m.Phone)
		}
		if age := m.Age(seedNow); age < 12 || age > 24 {
			t.Fatalf("roster[%d] age=%d outside 12..24", i, age)
		}
		if m.Gender != member.GenderMale && m.Gender != member.GenderFemale {
			t.Fatalf("roster[%d].Gender=%q", i, m.Gender)
		}
		if m.Notes != "" && m.Notes != notesSentinel {
			t.Fatalf("roster[%d].Notes=%q", i, m.Notes)
		}
		if m.RegistrationDate.After(member.DateOf(seedNow)) {
			t.Fatalf("roster[%d] registered in the future: %v", i, m.RegistrationDate)
		}
	}
}

// TestGenerateRoster_SortedNewestFirst verifies descending registration-date
// order.
func TestGenerateRoster_SortedNewestFirst(t *testing.T) {
	roster := GenerateRoster(RosterSeedCount, seedNow, rand.New(rand.NewSource(2)))
	for i := 1; i < len(roster); i++ {
		if roster[i].RegistrationDate.After(roster[i-1].RegistrationDate) {
			t.Fatalf("roster not sorted at %d: %v after %v",
				i, roster[i].RegistrationDate, roster[i-1].RegistrationDate)
		}
	}
}

// TestGenerateRoster_Deterministic verifies identical seeds produce identical
// rosters.
func TestGenerateRoster_Deterministic(t *testing.T) {
	a := GenerateRoster(RosterSeedCount, seedNow, rand.New(rand.NewSource(42)))
	b := GenerateRoster(RosterSeedCount, seedNow, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different rosters")
	}
}

// TestGenerateRoster_Empty verifies a zero count yields an empty roster.
func TestGenerateRoster_Empty(t *testing.T) {
	roster := GenerateRoster(0, seedNow, rand.New(rand.NewSource(1)))
	if len(roster) != 0 {
		t.Fatalf("len=%d want 0", len(roster))
	}
}

// TestEmailFor verifies the email derivation rule.
func TestEmailFor(t *testing.T) {
	if got := emailFor("Emma", "Smith"); got != "emma.smith@email.com" {
		t.Fatalf("email=%q want emma.smith@email.com", got)
	}
}

// TestExecuteLoadRoster_SeedsEmptyStoreOnce verifies an empty store is seeded
// and a populated one is returned untouched.
func TestExecuteLoadRoster_SeedsEmptyStoreOnce(t *testing.T) {
	store := &mockMemberStore{}
	deps := LoadRosterDeps{
		MemberStore: store,
		Rand:        rand.New(rand.NewSource(7)),
		Now:         func() time.Time { return seedNow },
	}

	first, err := ExecuteLoadRoster(context.Background(), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != RosterSeedCount {
		t.Fatalf("len=%d want %d", len(first), RosterSeedCount)
	}
	if store.replaceCalls != 1 {
		t.Fatalf("replaceCalls=%d want 1", store.replaceCalls)
	}

	second, err := ExecuteLoadRoster(context.Background(), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.replaceCalls != 1 {
		t.Fatalf("replaceCalls=%d want 1 after second load", store.replaceCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("second load differs from seeded roster")
	}
}

// TestExecuteLoadRoster_LoadErrorIsNotReseeded verifies an unreadable store
// fails without a seeding attempt.
func TestExecuteLoadRoster_LoadErrorIsNotReseeded(t *testing.T) {
	wantErr := errors.New("disk gone")
	store := &mockMemberStore{loadErr: wantErr}
	deps := LoadRosterDeps{
		MemberStore: store,
		Rand:        rand.New(rand.NewSource(7)),
		Now:         func() time.Time { return seedNow },
	}

	_, err := ExecuteLoadRoster(context.Background(), deps)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err=%v want %v", err, wantErr)
	}
	if store.replaceCalls != 0 {
		t.Fatalf("replaceCalls=%d want 0", store.replaceCalls)
	}
}

// TestExecuteLoadRoster_ReplaceErrorSurfaces verifies a failed seed write is
// reported.
func TestExecuteLoadRoster_ReplaceErrorSurfaces(t *testing.T) {
	wantErr := errors.New("write failed")
	store := &mockMemberStore{replaceErr: wantErr}
	deps := LoadRosterDeps{
		MemberStore: store,
		Rand:        rand.New(rand.NewSource(7)),
		Now:         func() time.Time { return seedNow },
	}

	if _, err := ExecuteLoadRoster(context.Background(), deps); !errors.Is(err, wantErr) {
		t.Fatalf("err=%v want %v", err, wantErr)
	}
}
