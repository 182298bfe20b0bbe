package orchestrators

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	memberStore "youthreg/internal/adapters/storage/member"
	"youthreg/internal/domain/member"
)

// RegisterMemberInput carries the registration form fields. Dates use the
// member.DateLayout format. ParentName, ParentPhone and Notes are optional.
type RegisterMemberInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth string
	Gender      string
	Address     string
	ParentName  string
	ParentPhone string
	Notes       string
}

// RegisterMemberDeps holds external dependencies for the registration
// orchestrator. GenerateID and Now are injected for testability.
type RegisterMemberDeps struct {
	MemberStore memberStore.Store
	GenerateID  func() string
	Now         func() time.Time
}

// ValidationError is returned when registration input fails a member field
// constraint. Nothing is persisted when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error formats the failing field and reason.
// INVARIANT: Field and Message are never empty for a valid ValidationError.
func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// ExecuteRegisterMember validates the input, assigns an ID and registration
// date, prepends the new member to the collection and persists it wholesale.
// PRE: deps.MemberStore, deps.GenerateID and deps.Now are non-nil
// POST: Returns the created member including its ID; on validation failure
//
//	returns *ValidationError and no state changes
//
// INVARIANT: RegistrationDate is set to "today" and is never caller-supplied
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	now := deps.Now()

	if verr := validateRegisterInput(input, now); verr != nil {
		return member.Member{}, verr
	}

	dob, _ := time.Parse(member.DateLayout, input.DateOfBirth)

	m := member.Member{
		ID:               deps.GenerateID(),
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Email:            input.Email,
		Phone:            input.Phone,
		DateOfBirth:      dob,
		Gender:           input.Gender,
		Address:          input.Address,
		RegistrationDate: member.DateOf(now),
		ParentName:       input.ParentName,
		ParentPhone:      input.ParentPhone,
		Notes:            input.Notes,
	}

	// Domain rules back-stop the field checks above.
	if err := m.Validate(now); err != nil {
		return member.Member{}, &ValidationError{Field: "member", Message: err.Error()}
	}

	members, err := deps.MemberStore.LoadAll(ctx)
	if err != nil {
		return member.Member{}, err
	}

	// Newest first: the new member goes to the front of the collection.
	updated := make([]member.Member, 0, len(members)+1)
	updated = append(updated, m)
	updated = append(updated, members...)

	if err := deps.MemberStore.ReplaceAll(ctx, updated); err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "registered", "id", m.ID, "name", m.FullName())
	return m, nil
}

// validateRegisterInput checks each form field, reporting the first failing
// field by name so the caller can surface it next to the input.
func validateRegisterInput(input RegisterMemberInput, now time.Time) *ValidationError {
	if strings.TrimSpace(input.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: "first name is required"}
	}
	if strings.TrimSpace(input.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: "last name is required"}
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if len(input.Phone) < member.MinPhoneLength {
		return &ValidationError{Field: "phone", Message: "phone number must be at least 10 characters"}
	}
	if input.DateOfBirth == "" {
		return &ValidationError{Field: "dateOfBirth", Message: "date of birth is required"}
	}
	dob, err := time.Parse(member.DateLayout, input.DateOfBirth)
	if err != nil {
		return &ValidationError{Field: "dateOfBirth", Message: "date of birth must be YYYY-MM-DD"}
	}
	if dob.After(now) {
		return &ValidationError{Field: "dateOfBirth", Message: "date of birth cannot be in the future"}
	}
	if !member.ValidGender(input.Gender) {
		return &ValidationError{Field: "gender", Message: "gender must be 'male', 'female', or 'other'"}
	}
	if len(input.Address) < member.MinAddressLength {
		return &ValidationError{Field: "address", Message: "address must be at least 5 characters"}
	}
	return nil
}
