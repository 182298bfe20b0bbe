package member

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"youthreg/internal/adapters/storage"
	domain "youthreg/internal/domain/member"
)

func newTestStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("initializing schema: %v", err)
	}
	return NewSQLiteStore(db), db
}

func storedMembers() []domain.Member {
	return []domain.Member{
		{
			ID:               "m1",
			FirstName:        "Emma",
			LastName:         "Smith",
			Email:            "emma.smith@email.com",
			Phone:            "+1 555-123-4567",
			DateOfBirth:      time.Date(2008, 3, 10, 0, 0, 0, 0, time.UTC),
			Gender:           domain.GenderFemale,
			Address:          "123 Main Street, City, State",
			RegistrationDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			ParentName:       "Ava Smith",
			ParentPhone:      "+1 555-999-8888",
			Notes:            "Active participant in choir",
		},
		{
			ID:               "m2",
			FirstName:        "Liam",
			LastName:         "Johnson",
			Email:            "liam.johnson@email.com",
			Phone:            "+1 555-987-6543",
			DateOfBirth:      time.Date(2006, 7, 2, 0, 0, 0, 0, time.UTC),
			Gender:           domain.GenderMale,
			Address:          "42 Oak Avenue, City, State",
			RegistrationDate: time.Date(2024, 4, 18, 0, 0, 0, 0, time.UTC),
		},
	}
}

// TestSQLiteStore_RoundTrip verifies ReplaceAll then LoadAll returns the
// collection unchanged, including order and empty optional fields.
func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	want := storedMembers()

	if err := store.ReplaceAll(ctx, want); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

// TestSQLiteStore_EmptyStore verifies a fresh store loads as empty.
func TestSQLiteStore_EmptyStore(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len=%d want 0", len(got))
	}
}

// TestSQLiteStore_ReplaceAllOverwrites verifies a second write discards the
// previous collection entirely.
func TestSQLiteStore_ReplaceAllOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, storedMembers()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	replacement := storedMembers()[:1]
	replacement[0].ID = "m3"
	if err := store.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m3" {
		t.Fatalf("got %+v want single m3", got)
	}
}

// TestSQLiteStore_PreservesWriteOrder verifies LoadAll returns members in the
// exact order ReplaceAll received them.
func TestSQLiteStore_PreservesWriteOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	reversed := storedMembers()
	reversed[0], reversed[1] = reversed[1], reversed[0]
	if err := store.ReplaceAll(ctx, reversed); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got[0].ID != "m2" || got[1].ID != "m1" {
		t.Fatalf("order=%s,%s want m2,m1", got[0].ID, got[1].ID)
	}
}

// TestSQLiteStore_Count verifies the row count tracks ReplaceAll.
func TestSQLiteStore_Count(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count=%d want 0", n)
	}

	if err := store.ReplaceAll(ctx, storedMembers()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	n, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d want 2", n)
	}
}

// TestSQLiteStore_CorruptRowFailsLoad verifies rows with unparseable dates or
// unknown genders surface as a StorageError instead of being skipped.
func TestSQLiteStore_CorruptRowFailsLoad(t *testing.T) {
	cases := []struct {
		name             string
		dob, reg, gender string
	}{
		{"bad date_of_birth", "yesterday", "2024-05-01", domain.GenderMale},
		{"bad registration_date", "2008-03-10", "05/01/2024", domain.GenderMale},
		{"unknown gender", "2008-03-10", "2024-05-01", "banana"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, db := newTestStore(t)
			_, err := db.Exec(`INSERT INTO member (position, id, first_name, last_name, email, phone,
				date_of_birth, gender, address, registration_date)
				VALUES (0, 'bad', 'A', 'B', 'a@b.com', '+1 555-000-0000', ?, ?, 'Some Street 1', ?)`,
				tc.dob, tc.gender, tc.reg)
			if err != nil {
				t.Fatalf("inserting row: %v", err)
			}

			_, err = store.LoadAll(context.Background())
			var serr *StorageError
			if !errors.As(err, &serr) {
				t.Fatalf("err=%v want *StorageError", err)
			}
			if serr.Op != "load" {
				t.Fatalf("op=%q want load", serr.Op)
			}
		})
	}
}

// TestStorageError_Unwrap verifies the wrapped cause stays reachable.
func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &StorageError{Op: "load", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is failed for %v", err)
	}
	if got := err.Error(); got != "member storage load: boom" {
		t.Fatalf("msg=%q", got)
	}
}
