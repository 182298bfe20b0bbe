package member

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Minimum length constraints for user-editable fields.
const (
	MinPhoneLength   = 10
	MinAddressLength = 5
)

// Gender values. GenderOther is accepted on input but never produced by the
// roster generator.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Domain errors
var (
	ErrEmptyFirstName  = errors.New("first name cannot be empty")
	ErrEmptyLastName   = errors.New("last name cannot be empty")
	ErrInvalidEmail    = errors.New("email must be a valid address")
	ErrPhoneTooShort   = fmt.Errorf("phone must be at least %d characters", MinPhoneLength)
	ErrMissingBirthday = errors.New("date of birth is required")
	ErrFutureBirthday  = errors.New("date of birth cannot be in the future")
	ErrInvalidGender   = errors.New("gender must be 'male', 'female', or 'other'")
	ErrAddressTooShort = fmt.Errorf("address must be at least %d characters", MinAddressLength)
)

// Member holds state for a single youth-group registrant.
// ParentName, ParentPhone and Notes are optional; the empty string means
// "not provided".
type Member struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	DateOfBirth      time.Time
	Gender           string
	Address          string
	RegistrationDate time.Time
	ParentName       string
	ParentPhone      string
	Notes            string
}

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized; now is the reference instant
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: DateOfBirth never lies after now for a valid member
func (m *Member) Validate(now time.Time) error {
	if strings.TrimSpace(m.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(m.LastName) == "" {
		return ErrEmptyLastName
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return ErrInvalidEmail
	}
	if len(m.Phone) < MinPhoneLength {
		return ErrPhoneTooShort
	}
	if m.DateOfBirth.IsZero() {
		return ErrMissingBirthday
	}
	if m.DateOfBirth.After(now) {
		return ErrFutureBirthday
	}
	if !ValidGender(m.Gender) {
		return ErrInvalidGender
	}
	if len(m.Address) < MinAddressLength {
		return ErrAddressTooShort
	}
	return nil
}

// DateOf truncates t to calendar-date precision (midnight UTC), the
// resolution used for DateOfBirth and RegistrationDate throughout.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FullName returns the display name.
// INVARIANT: No fields are mutated
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Age returns the member's age in whole years at the reference instant.
// PRE: DateOfBirth is set and not after now
// POST: Returns age >= 0
func (m *Member) Age(now time.Time) int {
	years := now.Year() - m.DateOfBirth.Year()
	anniversary := m.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
