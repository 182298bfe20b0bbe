package orchestrators

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"

	memberStore "youthreg/internal/adapters/storage/member"
	"youthreg/internal/domain/member"
)

// exportHeader is the CSV column set, matching the Member record field for
// field. Optional columns are left empty when not provided.
var exportHeader = []string{
	"ID", "FIRSTNAME", "LASTNAME", "EMAIL", "PHONE", "DATEOFBIRTH",
	"GENDER", "ADDRESS", "REGISTRATIONDATE", "PARENTNAME", "PARENTPHONE", "NOTES",
}

// ExportMembersDeps holds external dependencies for the export orchestrator.
type ExportMembersDeps struct {
	MemberStore memberStore.Store
}

// ExecuteExportMembers writes the full member collection to w as CSV, one
// row per member in store order, and returns the number of rows written.
// PRE: deps.MemberStore is non-nil, w is writable
// POST: w contains a header row plus one row per member
func ExecuteExportMembers(ctx context.Context, w io.Writer, deps ExportMembersDeps) (int, error) {
	members, err := deps.MemberStore.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}

	for _, m := range members {
		row := []string{
			m.ID,
			m.FirstName,
			m.LastName,
			m.Email,
			m.Phone,
			m.DateOfBirth.Format(member.DateLayout),
			m.Gender,
			m.Address,
			m.RegistrationDate.Format(member.DateLayout),
			m.ParentName,
			m.ParentPhone,
			m.Notes,
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	slog.Info("member_event", "event", "exported", "rows", len(members))
	return len(members), nil
}
