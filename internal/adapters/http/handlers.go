package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"youthreg/internal/adapters/email"
	"youthreg/internal/application/listutil"
	"youthreg/internal/application/orchestrators"
	"youthreg/internal/application/projections"
	"youthreg/internal/domain/member"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write_json_failed", "error", err.Error())
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/dashboard", handleDashboard)
	mux.HandleFunc("/api/members", handleMembers)
	mux.HandleFunc("/api/members/export", handleExportMembers)
	mux.HandleFunc("/api/statistics", handleStatistics)
}

// memberJSON is the wire form of a member record, camelCase per the client
// schema.
type memberJSON struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	RegistrationDate string `json:"registrationDate"`
	ParentName       string `json:"parentName,omitempty"`
	ParentPhone      string `json:"parentPhone,omitempty"`
	Notes            string `json:"notes,omitempty"`
	NotesHTML        string `json:"notesHtml,omitempty"`
}

func toMemberJSON(m member.Member) memberJSON {
	out := memberJSON{
		ID:               m.ID,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		Phone:            m.Phone,
		DateOfBirth:      m.DateOfBirth.Format(member.DateLayout),
		Gender:           m.Gender,
		Address:          m.Address,
		RegistrationDate: m.RegistrationDate.Format(member.DateLayout),
		ParentName:       m.ParentName,
		ParentPhone:      m.ParentPhone,
		Notes:            m.Notes,
	}
	if m.Notes != "" {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(m.Notes), &buf); err == nil {
			out.NotesHTML = buf.String()
		}
	}
	return out
}

// handleDashboard serves the dashboard view: headline counters plus the five
// most recent registrations.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Now: timeNow()},
		projections.GetDashboardDeps{MemberStore: stores.MemberStore})
	if err != nil {
		internalError(w, err)
		return
	}

	recent := make([]memberJSON, 0, len(result.Recent))
	for _, m := range result.Recent {
		recent = append(recent, toMemberJSON(m))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalMembers": result.Summary.Total,
		"thisWeek":     result.Summary.ThisWeek,
		"thisMonth":    result.Summary.ThisMonth,
		"thisYear":     result.Summary.ThisYear,
		"recent":       recent,
	})
}

// handleMembers serves the directory view (GET: filtered, paginated list) and
// the registration form (POST: create a member).
func handleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		handleListMembers(w, r)
	case "POST":
		handleRegisterMember(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec := member.FilterSpec{
		Search:    q.Get("search"),
		Gender:    q.Get("gender"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	result, err := projections.QueryGetMemberList(r.Context(),
		projections.GetMemberListQuery{Filter: spec},
		projections.GetMemberListDeps{MemberStore: stores.MemberStore})
	if err != nil {
		internalError(w, err)
		return
	}

	page := listutil.ParsePageParams(q)
	start, end := listutil.Window(page, len(result.Members))
	info := listutil.BuildPageInfo(page, len(result.Members))

	members := make([]memberJSON, 0, end-start)
	for _, m := range result.Members[start:end] {
		members = append(members, toMemberJSON(m))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"members":    members,
		"matched":    len(result.Members),
		"total":      result.Total,
		"page":       info.Page,
		"perPage":    info.PerPage,
		"totalPages": info.TotalPages,
	})
}

// registerRequest mirrors the registration form fields.
type registerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	Notes       string `json:"notes"`
}

func handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := orchestrators.ExecuteRegisterMember(r.Context(),
		orchestrators.RegisterMemberInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			DateOfBirth: req.DateOfBirth,
			Gender:      req.Gender,
			Address:     req.Address,
			ParentName:  req.ParentName,
			ParentPhone: req.ParentPhone,
			Notes:       req.Notes,
		},
		orchestrators.RegisterMemberDeps{
			MemberStore: stores.MemberStore,
			GenerateID:  generateID,
			Now:         timeNow,
		})
	if err != nil {
		var verr *orchestrators.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": verr.Message,
				"field": verr.Field,
			})
			return
		}
		internalError(w, err)
		return
	}

	sendWelcomeEmail(r, created)
	writeJSON(w, http.StatusCreated, toMemberJSON(created))
}

// sendWelcomeEmail delivers a registration confirmation, best-effort: a
// delivery failure is logged and never fails the registration.
func sendWelcomeEmail(r *http.Request, m member.Member) {
	if emailSender == nil {
		return
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to the youth group! Your registration on %s is confirmed.</p>",
		m.FirstName, m.RegistrationDate.Format(member.DateLayout))
	_, err := emailSender.Send(r.Context(), email.SendRequest{
		To:      []string{m.Email},
		From:    emailFromAddress,
		Subject: "Welcome to the youth group!",
		HTML:    body,
	})
	if err != nil {
		slog.Warn("welcome_email_failed", "member", m.ID, "error", err.Error())
	}
}

// handleExportMembers streams the full roster as a CSV download.
func handleExportMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)

	if _, err := orchestrators.ExecuteExportMembers(r.Context(), w,
		orchestrators.ExportMembersDeps{MemberStore: stores.MemberStore}); err != nil {
		// Headers may already be sent; log and abort the stream.
		slog.Error("export_failed", "error", err.Error())
	}
}

// handleStatistics serves the statistics view: counters plus all four
// distributions.
func handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetStatistics(r.Context(),
		projections.GetStatisticsQuery{Now: timeNow()},
		projections.GetStatisticsDeps{MemberStore: stores.MemberStore})
	if err != nil {
		internalError(w, err)
		return
	}

	monthly := make([]map[string]any, 0, len(result.Monthly))
	for _, b := range result.Monthly {
		monthly = append(monthly, map[string]any{"month": b.Label, "count": b.Count})
	}
	weekly := make([]map[string]any, 0, len(result.Weekly))
	for _, b := range result.Weekly {
		weekly = append(weekly, map[string]any{"week": b.Label, "count": b.Count})
	}
	gender := make([]map[string]any, 0, len(result.Gender))
	for _, e := range result.Gender {
		gender = append(gender, map[string]any{"name": e.Label, "value": e.Count})
	}
	age := make([]map[string]any, 0, len(result.Age))
	for _, b := range result.Age {
		age = append(age, map[string]any{"range": b.Range, "count": b.Count})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalMembers":       result.Summary.Total,
		"thisWeek":           result.Summary.ThisWeek,
		"thisMonth":          result.Summary.ThisMonth,
		"thisYear":           result.Summary.ThisYear,
		"monthlyData":        monthly,
		"weeklyData":         weekly,
		"genderDistribution": gender,
		"ageDistribution":    age,
	})
}
