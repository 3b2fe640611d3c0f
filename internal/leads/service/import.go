package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"msp_core_backend/internal/events"
	"msp_core_backend/internal/leads/domain"
	"msp_core_backend/internal/leads/importer"
	"msp_core_backend/internal/leads/repository"
	"msp_core_backend/internal/leads/transport"
	"msp_core_backend/platform/apperr"

	"github.com/google/uuid"
)

// ImportOptions tunes a CSV import run.
type ImportOptions struct {
	// SourceID attributes imported leads to a channel. Nil uses the
	// tenant's built-in import source.
	SourceID *uuid.UUID
	// FailOnDuplicate turns duplicate rows into errors instead of skips.
	FailOnDuplicate bool
	// MaxRows caps the number of data rows accepted. Zero means 10000.
	MaxRows int
}

// ImportCSV parses a CSV stream, maps rows through the import mapper, and
// persists the successful records. The returned response carries the three
// counters and the per-row audit trail.
func (s *Service) ImportCSV(ctx context.Context, companyID uuid.UUID, r io.Reader, opts ImportOptions) (transport.ImportResponse, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = 10000
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled by the mapper
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return transport.ImportResponse{}, apperr.BadRequest("csv file is empty")
	}
	if err != nil {
		return transport.ImportResponse{}, apperr.Wrap(apperr.KindBadRequest, "failed to read csv header", err)
	}

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return transport.ImportResponse{}, apperr.Wrap(apperr.KindBadRequest, "failed to read csv row", err)
		}
		rows = append(rows, row)
		if len(rows) > maxRows {
			return transport.ImportResponse{}, apperr.BadRequest(fmt.Sprintf("import exceeds the %d row limit", maxRows))
		}
	}

	source, err := s.resolveImportSource(ctx, companyID, opts.SourceID)
	if err != nil {
		return transport.ImportResponse{}, err
	}

	mapper := importer.New()
	result := mapper.Run(rows, headers, importer.Options{
		Defaults: importer.Defaults{
			CompanyID:     companyID,
			SourceID:      source.ID,
			Status:        domain.StatusNew,
			InterestLevel: domain.InterestMedium,
		},
		Duplicates: importer.DuplicateCheckerFunc(func(email string) bool {
			exists, err := s.repo.EmailExists(ctx, companyID, email)
			if err != nil {
				s.log.DatabaseError("import duplicate check", err)
				return false
			}
			return exists
		}),
		FailOnDuplicate: opts.FailOnDuplicate,
	})

	for _, record := range result.Records {
		lead, err := s.repo.Create(ctx, record)
		if err != nil {
			// The row already passed mapping; surface the storage failure
			// in the audit trail and adjust the counters.
			result.Success--
			result.Errors++
			result.AuditLog = append(result.AuditLog, fmt.Sprintf("persist %s: %v", record.Email, err))
			s.log.DatabaseError("import lead create", err)
			continue
		}

		if _, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
			LeadID:       lead.ID,
			CompanyID:    companyID,
			Type:         domain.ActivityLeadCreated,
			ActivityDate: lead.CreatedAt,
			Metadata:     map[string]string{"origin": "csv_import"},
		}); err != nil {
			s.log.Error("failed to record import activity", "leadId", lead.ID, "error", err)
		}

		s.bus.Publish(ctx, events.LeadImported{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			TenantID:  companyID,
			Email:     lead.Email,
			SourceID:  source.ID,
		})
	}

	s.log.ImportSummary(companyID.String(), result.Success, result.Errors, result.Skipped)
	s.bus.Publish(ctx, events.LeadImportCompleted{
		BaseEvent: events.NewBaseEvent(),
		TenantID:  companyID,
		Success:   result.Success,
		Errors:    result.Errors,
		Skipped:   result.Skipped,
	})

	return transport.ToImportResponse(result), nil
}

func (s *Service) resolveImportSource(ctx context.Context, companyID uuid.UUID, sourceID *uuid.UUID) (domain.Source, error) {
	if sourceID != nil {
		source, err := s.repo.GetSource(ctx, *sourceID, companyID)
		if err != nil {
			return domain.Source{}, apperr.BadRequest("lead source not found")
		}
		return source, nil
	}
	return s.repo.EnsureImportSource(ctx, companyID)
}
