package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	yearsAhead  = 5
	yearsBehind = 30
)

// VillageGroup is villages sharing a "district - taluka" key.
type VillageGroup struct {
	Key      string           `json:"key"`
	Villages []domain.Village `json:"villages"`
}

type ReferenceService struct {
	repo ports.ReferenceRepository
	now  func() time.Time
	log  zerolog.Logger
}

func NewReferenceService(repo ports.ReferenceRepository, baseLogger *zerolog.Logger) *ReferenceService {
	return &ReferenceService{
		repo: repo,
		now:  time.Now,
		log:  baseLogger.With().Str("component", "reference_service").Logger(),
	}
}

func (s *ReferenceService) Villages(ctx context.Context) ([]domain.Village, error) {
	return s.repo.Villages(ctx)
}

// GroupedVillages keeps the repository's ordering inside each group and
// orders groups by first appearance.
func (s *ReferenceService) GroupedVillages(ctx context.Context) ([]VillageGroup, error) {
	villages, err := s.repo.Villages(ctx)
	if err != nil {
		return nil, err
	}
	index := map[string]int{}
	var groups []VillageGroup
	for _, v := range villages {
		key := v.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, VillageGroup{Key: key})
		}
		groups[i].Villages = append(groups[i].Villages, v)
	}
	return groups, nil
}

func (s *ReferenceService) Cities(ctx context.Context) ([]domain.City, error) {
	return s.repo.Cities(ctx)
}

func (s *ReferenceService) Colleges(ctx context.Context, f domain.CollegeFilter) ([]domain.College, error) {
	return s.repo.Colleges(ctx, f)
}

func (s *ReferenceService) CollegeCourses(ctx context.Context, collegeID int64) ([]string, error) {
	if collegeID <= 0 {
		return nil, domain.NewValidationError("collegeId is required")
	}
	return s.repo.CollegeCourses(ctx, collegeID)
}

func (s *ReferenceService) Departments(ctx context.Context) ([]domain.Department, error) {
	return s.repo.Departments(ctx)
}

// SubDepartments needs a department id or name; with neither it is empty.
func (s *ReferenceService) SubDepartments(ctx context.Context, departmentID int64, departmentName string) ([]domain.SubDepartment, error) {
	if departmentID <= 0 && departmentName == "" {
		return []domain.SubDepartment{}, nil
	}
	return s.repo.SubDepartments(ctx, departmentID, departmentName)
}

func (s *ReferenceService) BusinessTypes() []string  { return domain.BusinessTypes }
func (s *ReferenceService) BusinessFields() []string { return domain.BusinessFields }
func (s *ReferenceService) JobFields() []string      { return domain.JobFields }

// Years runs from five years ahead down to thirty years back.
func (s *ReferenceService) Years() []int {
	current := s.now().Year()
	years := make([]int, 0, yearsAhead+yearsBehind+1)
	for y := current + yearsAhead; y >= current-yearsBehind; y-- {
		years = append(years, y)
	}
	return years
}
