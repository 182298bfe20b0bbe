package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	memberStore "youthreg/internal/adapters/storage/member"
	"youthreg/internal/domain/member"
)

// RosterSeedCount is the size of the roster generated for a fresh store.
const RosterSeedCount = 85

// notesSentinel is attached to roughly 30% of generated records.
const notesSentinel = "Active participant in choir"

// Reference name lists for synthetic roster generation.
var firstNames = []string{
	"Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Sophia", "Mason",
	"Isabella", "Lucas", "Mia", "James", "Charlotte", "Benjamin", "Amelia",
	"Elijah", "Harper", "William", "Evelyn", "Alexander",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

// LoadRosterDeps holds dependencies for loading (and first-run seeding of)
// the member collection.
type LoadRosterDeps struct {
	MemberStore memberStore.Store
	Rand        *rand.Rand
	Now         func() time.Time
}

// ExecuteLoadRoster returns the persisted member collection. A
// never-initialized (empty) store is seeded exactly once with a generated
// roster; an unreadable or corrupt store fails with a StorageError and is
// never reseeded.
// PRE: deps.MemberStore, deps.Rand and deps.Now are non-nil
// POST: Returns a non-empty collection or an error
func ExecuteLoadRoster(ctx context.Context, deps LoadRosterDeps) ([]member.Member, error) {
	members, err := deps.MemberStore.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return members, nil
	}

	roster := GenerateRoster(RosterSeedCount, deps.Now(), deps.Rand)
	if err := deps.MemberStore.ReplaceAll(ctx, roster); err != nil {
		return nil, err
	}
	slog.Info("roster_event", "event", "seeded", "members", len(roster))
	return roster, nil
}

// GenerateRoster produces count synthetic members for first-run seeding.
// All randomness comes from rng and the reference instant is now, so the
// output is fully reproducible for a given (count, now, rng-seed) triple.
// PRE: count >= 0, rng is non-nil
// POST: Returns count members sorted descending by registration date
func GenerateRoster(count int, now time.Time, rng *rand.Rand) []member.Member {
	members := make([]member.Member, 0, count)

	for i := 0; i < count; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]

		// Age between 13 and 24 inclusive; day capped at 28 so no
		// month-length validation is needed.
		birthYear := now.Year() - (13 + rng.Intn(12))
		birthMonth := time.Month(1 + rng.Intn(12))
		birthDay := 1 + rng.Intn(28)

		registered := member.DateOf(now.Add(-time.Duration(rng.Int63n(365*24)) * time.Hour))

		gender := member.GenderMale
		if rng.Intn(2) == 1 {
			gender = member.GenderFemale
		}

		m := member.Member{
			ID:               fmt.Sprintf("member-%d", i+1),
			FirstName:        first,
			LastName:         last,
			Email:            emailFor(first, last),
			Phone:            syntheticPhone(rng),
			DateOfBirth:      time.Date(birthYear, birthMonth, birthDay, 0, 0, 0, 0, time.UTC),
			Gender:           gender,
			Address:          fmt.Sprintf("%d Main Street, City, State", rng.Intn(9999)+1),
			RegistrationDate: registered,
			ParentName:       firstNames[rng.Intn(len(firstNames))] + " " + last,
			ParentPhone:      syntheticPhone(rng),
		}
		if rng.Float64() < 0.3 {
			m.Notes = notesSentinel
		}
		members = append(members, m)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].RegistrationDate.After(members[j].RegistrationDate)
	})
	return members
}

// emailFor derives the synthetic email address from a name pair.
func emailFor(first, last string) string {
	return fmt.Sprintf("%s.%s@email.com", strings.ToLower(first), strings.ToLower(last))
}

// syntheticPhone builds a "+1 NNN-NNN-NNNN" number with each group drawn
// independently: 100-999, 100-999, 1000-9999.
func syntheticPhone(rng *rand.Rand) string {
	return fmt.Sprintf("+1 %d-%d-%d", rng.Intn(900)+100, rng.Intn(900)+100, rng.Intn(9000)+1000)
}
