package member

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "youthreg/internal/domain/member"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new member Store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = "id, first_name, last_name, email, phone, date_of_birth, gender, address, registration_date, parent_name, parent_phone, notes"

// LoadAll retrieves the full member collection in stored order.
// PRE: schema has been initialized
// POST: Returns the collection exactly as last written by ReplaceAll
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM member ORDER BY position ASC"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows)
		if err != nil {
			return nil, &StorageError{Op: "load", Err: err}
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return results, nil
}

// ReplaceAll overwrites the persisted collection wholesale.
// PRE: every member has a unique, non-empty ID
// POST: A subsequent LoadAll returns members in the given order
func (s *SQLiteStore) ReplaceAll(ctx context.Context, members []domain.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM member"); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	insert := "INSERT INTO member (position, " + memberColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	for i, m := range members {
		_, err := tx.ExecContext(ctx, insert,
			i,
			m.ID,
			m.FirstName,
			m.LastName,
			m.Email,
			m.Phone,
			m.DateOfBirth.Format(domain.DateLayout),
			m.Gender,
			m.Address,
			m.RegistrationDate.Format(domain.DateLayout),
			nullable(m.ParentName),
			nullable(m.ParentPhone),
			nullable(m.Notes),
		)
		if err != nil {
			return &StorageError{Op: "save", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Count returns the number of persisted members.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member").Scan(&count); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return count, nil
}

// scanMember maps one row to a domain Member, validating the stored date and
// gender values. A row that fails here is corrupt data, not a missing slot.
func scanMember(rows *sql.Rows) (domain.Member, error) {
	var entity domain.Member
	var dob, reg string
	var parentName, parentPhone, notes sql.NullString

	if err := rows.Scan(
		&entity.ID,
		&entity.FirstName,
		&entity.LastName,
		&entity.Email,
		&entity.Phone,
		&dob,
		&entity.Gender,
		&entity.Address,
		&reg,
		&parentName,
		&parentPhone,
		&notes,
	); err != nil {
		return domain.Member{}, err
	}

	var err error
	entity.DateOfBirth, err = time.Parse(domain.DateLayout, dob)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s: bad date_of_birth %q: %w", entity.ID, dob, err)
	}
	entity.RegistrationDate, err = time.Parse(domain.DateLayout, reg)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s: bad registration_date %q: %w", entity.ID, reg, err)
	}
	if !domain.ValidGender(entity.Gender) {
		return domain.Member{}, fmt.Errorf("member %s: unknown gender %q", entity.ID, entity.Gender)
	}

	if parentName.Valid {
		entity.ParentName = parentName.String
	}
	if parentPhone.Valid {
		entity.ParentPhone = parentPhone.String
	}
	if notes.Valid {
		entity.Notes = notes.String
	}
	return entity, nil
}

// nullable maps the empty string ("not provided") to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
