package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// utf8BOM lets spreadsheet tools detect UTF-8 (Gujarati names).
const utf8BOM = "\ufeff"

var reportHeader = []string{
	"ID", "First Name", "Middle Name", "Last Name", "Gender",
	"Phone", "Email", "Village", "Taluka", "District",
	"Current Address", "Occupation Type", "Approved",
	"Detail 1", "Detail 2", "Detail 3", "Detail 4", "Created At",
}

type AdminService struct {
	approvals ports.ApprovalRepository
	bus       ports.EventBus
	log       zerolog.Logger
}

func NewAdminService(approvals ports.ApprovalRepository, bus ports.EventBus, baseLogger *zerolog.Logger) *AdminService {
	return &AdminService{
		approvals: approvals,
		bus:       bus,
		log:       baseLogger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *AdminService) ListPending(ctx context.Context, page domain.PageRequest) (domain.Page[domain.DirectoryEntry], error) {
	return s.approvals.ListPending(ctx, page.Normalize())
}

func (s *AdminService) ListUsers(ctx context.Context, f domain.UserListFilter) (domain.Page[domain.DirectoryEntry], error) {
	if f.Occupation != "" && !f.Occupation.Valid() {
		return domain.Page[domain.DirectoryEntry]{}, domain.NewValidationError("unknown occupation type")
	}
	f.PageRequest = f.PageRequest.Normalize()
	return s.approvals.ListUsers(ctx, f)
}

// Approve admits a pending user. Users that are missing, already
// approved, incomplete or admins yield domain.ErrNotFound.
func (s *AdminService) Approve(ctx context.Context, id uuid.UUID) error {
	log := s.log.With().Str("target_user_id", id.String()).Logger()

	decided, err := s.approvals.Approve(ctx, id)
	if err != nil {
		return fmt.Errorf("approve: %w", err)
	}
	if decided == nil {
		return domain.ErrNotFound
	}
	log.Info().Msg("User approved")

	if err := s.bus.Publish(ctx, ports.TopicUserApproved, ports.UserDecisionEvent{User: *decided}); err != nil {
		log.Error().Err(err).Msg("Failed to publish 'user:approved' event")
	}
	return nil
}

// Reject deletes the user and its dependents and reports whether a row
// was removed. Rejecting an id that no longer exists succeeds without
// side effects.
func (s *AdminService) Reject(ctx context.Context, id uuid.UUID) (bool, error) {
	log := s.log.With().Str("target_user_id", id.String()).Logger()

	decided, err := s.approvals.Reject(ctx, id)
	if err != nil {
		return false, fmt.Errorf("reject: %w", err)
	}
	if decided == nil {
		log.Info().Msg("Reject found nothing to delete")
		return false, nil
	}
	log.Info().Msg("User rejected")

	if err := s.bus.Publish(ctx, ports.TopicUserRejected, ports.UserDecisionEvent{User: *decided}); err != nil {
		log.Error().Err(err).Msg("Failed to publish 'user:rejected' event")
	}
	return true, nil
}

// ToggleSensitiveAccess flips the flag and returns its new value.
func (s *AdminService) ToggleSensitiveAccess(ctx context.Context, id uuid.UUID) (bool, error) {
	granted, err := s.approvals.ToggleSensitiveAccess(ctx, id)
	if err != nil {
		return false, err
	}
	s.log.Info().Str("target_user_id", id.String()).Bool("granted", granted).Msg("Sensitive access toggled")
	return granted, nil
}

func (s *AdminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	return s.approvals.Stats(ctx)
}

func (s *AdminService) Report(ctx context.Context, f domain.ReportFilter) ([]domain.ReportRow, error) {
	if f.Occupation != "" && !f.Occupation.Valid() {
		return nil, domain.NewValidationError("unknown occupation type")
	}
	return s.approvals.Report(ctx, f)
}

// ReportFilename names an export the way the download is labelled.
func ReportFilename(f domain.ReportFilter, now time.Time) string {
	if f.VillageID != nil {
		return fmt.Sprintf("community_report_village_%d_%d.csv", *f.VillageID, now.UnixMilli())
	}
	kind := string(f.Occupation)
	if kind == "" {
		kind = "all"
	}
	return fmt.Sprintf("community_report_%s_%d.csv", kind, now.UnixMilli())
}

// WriteReportCSV writes a BOM, the header and one line per row.
func WriteReportCSV(w io.Writer, rows []domain.ReportRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for i := range rows {
		if err := cw.Write(reportRecord(&rows[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func reportRecord(r *domain.ReportRow) []string {
	d := detailColumns(r.Occupation)
	approved := "No"
	if r.IsApproved {
		approved = "Yes"
	}
	return []string{
		r.ID.String(), r.FirstName, r.MiddleName, r.LastName, r.Gender,
		r.Phone, r.Email, r.VillageName, r.Taluka, r.District,
		r.CurrentAddress, string(r.OccupationType), approved,
		d[0], d[1], d[2], d[3], r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// detailColumns picks the four summary fields of each variant.
func detailColumns(occ domain.Occupation) [4]string {
	switch o := occ.(type) {
	case *domain.StudentDetail:
		return [4]string{o.Department, o.SubDepartment, o.CollegeName, o.CollegeCity}
	case *domain.JobDetail:
		return [4]string{o.CompanyName, o.Designation, o.Field, o.WorkingCity}
	case *domain.BusinessDetail:
		return [4]string{o.BusinessName, o.BusinessType, o.BusinessField, o.BusinessCity}
	}
	return [4]string{}
}
