package ports

import (
	"CommunityDirectory/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// DirectoryRepository is the read side over approved users.
type DirectoryRepository interface {
	Search(ctx context.Context, filter domain.DirectoryFilter) (domain.Page[domain.DirectoryEntry], error)
	// GetApproved returns nil when the user is missing or not approved.
	GetApproved(ctx context.Context, id uuid.UUID) (*domain.DirectoryEntry, error)
	PublicStats(ctx context.Context) (*domain.PublicStats, error)
}

// ReferenceRepository serves the seeded lookup tables.
type ReferenceRepository interface {
	Villages(ctx context.Context) ([]domain.Village, error)
	Cities(ctx context.Context) ([]domain.City, error)
	Colleges(ctx context.Context, filter domain.CollegeFilter) ([]domain.College, error)
	CollegeCourses(ctx context.Context, collegeID int64) ([]string, error)
	Departments(ctx context.Context) ([]domain.Department, error)
	// SubDepartments filters by id when departmentID > 0, else by name when set.
	SubDepartments(ctx context.Context, departmentID int64, departmentName string) ([]domain.SubDepartment, error)
}
