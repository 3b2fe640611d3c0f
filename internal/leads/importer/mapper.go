// Package importer maps loosely structured spreadsheet rows onto canonical
// lead-creation records. Column headers arrive with real-world naming
// variance ("E-Mail", "Last Name", "lastname"); the mapper normalizes them
// against a synonym table, validates the result, and flags duplicates.
//
// The mapper performs no I/O. Duplicate detection is delegated to a
// caller-supplied DuplicateChecker so the service layer can back it with
// the repository while tests use an in-memory set.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"msp_core_backend/internal/leads/domain"
	"msp_core_backend/platform/phone"
	"msp_core_backend/platform/sanitize"
	platformvalidator "msp_core_backend/platform/validator"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// headerSynonyms maps each canonical field to the header spellings that feed
// it. Headers are compared after lowercasing and trimming; the first synonym
// present in the row with a non-empty value wins.
var headerSynonyms = map[string][]string{
	"first_name":      {"first", "first name", "firstname", "given name"},
	"last_name":       {"last", "last name", "lastname", "surname"},
	"email":           {"email", "e-mail", "email address", "e-mail address"},
	"phone":           {"phone", "phone number", "telephone", "mobile"},
	"company_name":    {"company", "company name", "organization", "organisation", "business"},
	"title":           {"title", "job title", "position", "role"},
	"website":         {"website", "web site", "url", "domain"},
	"industry":        {"industry", "sector", "vertical"},
	"company_size":    {"company size", "employees", "employee count", "size"},
	"country":         {"country", "country code"},
	"notes":           {"notes", "note", "comments", "description"},
	"estimated_value": {"estimated value", "value", "deal value", "opportunity value"},
	"status":          {"status", "lead status"},
	"interest_level":  {"interest", "interest level"},
}

// DuplicateChecker reports whether a lead with the given email already
// exists within the importing tenant.
type DuplicateChecker interface {
	EmailExists(email string) bool
}

// DuplicateCheckerFunc adapts a function to the DuplicateChecker interface.
type DuplicateCheckerFunc func(email string) bool

// EmailExists calls the underlying function.
func (f DuplicateCheckerFunc) EmailExists(email string) bool { return f(email) }

// Defaults supplies the values a row cannot carry itself.
type Defaults struct {
	CompanyID     uuid.UUID
	SourceID      uuid.UUID
	Status        domain.LeadStatus
	InterestLevel domain.InterestLevel
	// PhoneRegion is the default region for normalizing phone numbers
	// without a country prefix. Empty means US.
	PhoneRegion string
}

// Options configures an import run.
type Options struct {
	Defaults Defaults
	// Duplicates is consulted per row; nil disables duplicate detection.
	Duplicates DuplicateChecker
	// FailOnDuplicate turns duplicate rows into errors instead of skips.
	FailOnDuplicate bool
}

// Result summarizes an import run. The three counters are independent:
// every processed row increments exactly one of them, and AuditLog carries
// one message per row in input order.
type Result struct {
	Success  int
	Errors   int
	Skipped  int
	Records  []domain.CreateLead
	Messages []RowMessage
	AuditLog []string
}

// RowMessage is a row-indexed human-readable outcome (1-based, matching
// spreadsheet row numbers with the header on row 1).
type RowMessage struct {
	Row     int
	Outcome Outcome
	Message string
}

// Outcome classifies a processed row. Duplicates are a distinct outcome,
// never conflated with validation errors.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeSkipped Outcome = "skipped"
)

// rowRecord is the intermediate shape MapRow validates before producing a
// CreateLead. Tags mirror platform validation conventions.
type rowRecord struct {
	FirstName     string `validate:"required"`
	LastName      string `validate:"required"`
	Email         string `validate:"required,email"`
	Status        string `validate:"required"`
	InterestLevel string `validate:"required"`
}

// Mapper maps and validates rows. Safe for concurrent use.
type Mapper struct {
	val *validator.Validate
}

// New creates a row mapper backed by the shared platform validator.
func New() *Mapper {
	return &Mapper{val: platformvalidator.Validate}
}

// RowError reports why a row could not be mapped. Messages enumerates every
// failed constraint rather than stopping at the first.
type RowError struct {
	Messages []string
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// DuplicateError reports a row whose email already exists for the tenant.
type DuplicateError struct {
	Email string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("lead with email %s already exists", e.Email)
}

// MapRow converts one raw row into a canonical lead-creation record.
// headers and row are parallel slices; extra cells are ignored and missing
// cells read as empty. Returns *RowError for validation failures. Duplicate
// detection happens in Run, not here, so MapRow stays a pure mapping step.
func (m *Mapper) MapRow(row []string, headers []string, defaults Defaults) (domain.CreateLead, error) {
	fields := extractFields(row, headers)

	record := rowRecord{
		FirstName:     fields["first_name"],
		LastName:      fields["last_name"],
		Email:         strings.ToLower(fields["email"]),
		Status:        fields["status"],
		InterestLevel: fields["interest_level"],
	}
	if record.Status == "" {
		record.Status = string(defaults.Status)
	}
	if record.InterestLevel == "" {
		record.InterestLevel = string(defaults.InterestLevel)
	}

	var messages []string
	if err := m.val.Struct(record); err != nil {
		messages = append(messages, describeFieldErrors(err)...)
	}
	if record.Status != "" && !domain.IsKnownLeadStatus(domain.LeadStatus(record.Status)) {
		messages = append(messages, fmt.Sprintf("unknown lead status %q", record.Status))
	}
	if record.InterestLevel != "" && !domain.IsKnownInterestLevel(domain.InterestLevel(record.InterestLevel)) {
		messages = append(messages, fmt.Sprintf("unknown interest level %q", record.InterestLevel))
	}
	if defaults.SourceID == uuid.Nil {
		messages = append(messages, "a lead source is required")
	}
	if len(messages) > 0 {
		return domain.CreateLead{}, &RowError{Messages: messages}
	}

	create := domain.CreateLead{
		CompanyID:     defaults.CompanyID,
		SourceID:      defaults.SourceID,
		FirstName:     record.FirstName,
		LastName:      record.LastName,
		Email:         record.Email,
		Status:        domain.LeadStatus(record.Status),
		InterestLevel: domain.InterestLevel(record.InterestLevel),
	}

	if v := fields["phone"]; v != "" {
		normalized := phone.NormalizeE164Region(v, defaults.PhoneRegion)
		create.Phone = &normalized
	}
	if v := fields["company_name"]; v != "" {
		create.CompanyName = &v
	}
	if v := fields["title"]; v != "" {
		create.Title = &v
	}
	if v := fields["website"]; v != "" {
		create.Website = &v
	}
	if v := fields["industry"]; v != "" {
		create.Industry = &v
	}
	if v := fields["country"]; v != "" {
		create.Country = &v
	}
	if v := fields["notes"]; v != "" {
		cleaned := sanitize.Text(v)
		create.Notes = &cleaned
	}
	if v := fields["company_size"]; v != "" {
		if size, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && size >= 0 {
			create.CompanySize = &size
		}
	}
	if v := fields["estimated_value"]; v != "" {
		if value, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && value >= 0 {
			create.EstimatedValue = value
		}
	}

	return create, nil
}

// Run maps every row, applying the duplicate policy, and returns counters
// plus a per-row audit trail. rows excludes the header row; row numbering
// in messages starts at 2 to match the source spreadsheet.
func (m *Mapper) Run(rows [][]string, headers []string, opts Options) Result {
	result := Result{}
	seen := make(map[string]struct{})

	for i, row := range rows {
		rowNum := i + 2

		record, err := m.MapRow(row, headers, opts.Defaults)
		if err != nil {
			result.Errors++
			result.addMessage(rowNum, OutcomeError, err.Error())
			continue
		}

		_, inBatch := seen[record.Email]
		exists := inBatch || (opts.Duplicates != nil && opts.Duplicates.EmailExists(record.Email))
		if exists {
			dup := &DuplicateError{Email: record.Email}
			if opts.FailOnDuplicate {
				result.Errors++
				result.addMessage(rowNum, OutcomeError, dup.Error())
			} else {
				result.Skipped++
				result.addMessage(rowNum, OutcomeSkipped, dup.Error())
			}
			continue
		}

		seen[record.Email] = struct{}{}
		result.Success++
		result.Records = append(result.Records, record)
		result.addMessage(rowNum, OutcomeSuccess, fmt.Sprintf("imported %s %s <%s>", record.FirstName, record.LastName, record.Email))
	}

	return result
}

func (r *Result) addMessage(row int, outcome Outcome, message string) {
	r.Messages = append(r.Messages, RowMessage{Row: row, Outcome: outcome, Message: message})
	r.AuditLog = append(r.AuditLog, fmt.Sprintf("row %d: %s", row, message))
}

// extractFields resolves the synonym table against one row. Headers are
// matched case-insensitively after trimming; within a canonical field the
// synonym list order decides which column wins when several are present.
func extractFields(row []string, headers []string) map[string]string {
	normalized := make(map[string]string, len(headers))
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		if key == "" || i >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}
		// First column with a value wins for repeated headers.
		if _, ok := normalized[key]; !ok {
			normalized[key] = value
		}
	}

	fields := make(map[string]string, len(headerSynonyms))
	for field, synonyms := range headerSynonyms {
		// The canonical spelling always matches, then the synonym table.
		if value, ok := normalized[field]; ok {
			fields[field] = value
			continue
		}
		for _, synonym := range synonyms {
			if value, ok := normalized[synonym]; ok {
				fields[field] = value
				break
			}
		}
	}
	return fields
}

// describeFieldErrors turns validator tag failures into row-level messages.
func describeFieldErrors(err error) []string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch {
		case fe.Field() == "Email" && fe.Tag() == "email":
			messages = append(messages, "invalid email format")
		case fe.Tag() == "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldLabel(fe.Field())))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldLabel(fe.Field()), fe.Tag()))
		}
	}
	return messages
}

func fieldLabel(field string) string {
	switch field {
	case "FirstName":
		return "first name"
	case "LastName":
		return "last name"
	case "Email":
		return "email"
	case "Status":
		return "status"
	case "InterestLevel":
		return "interest level"
	default:
		return strings.ToLower(field)
	}
}
