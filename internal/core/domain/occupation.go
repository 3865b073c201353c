package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Occupation is the per-user occupation detail. Exactly one variant is
// attached to a completed profile and it must match User.OccupationType.
type Occupation interface {
	Type() OccupationType
	isOccupation()
}

type StudentDetail struct {
	Department         string `json:"department"`
	SubDepartment      string `json:"subDepartment"`
	CollegeCity        string `json:"collegeCity"`
	CollegeName        string `json:"collegeName"`
	YearOfStudy        string `json:"yearOfStudy"`
	ExpectedGraduation string `json:"expectedGraduation"`
	AdditionalInfo     string `json:"additionalInfo"`
}

type JobDetail struct {
	GraduationYear   string `json:"graduationYear"`
	CollegeCity      string `json:"collegeCity"`
	CollegeName      string `json:"collegeName"`
	Department       string `json:"department"`
	GraduationBranch string `json:"graduationBranch"`
	WorkingCity      string `json:"workingCity"`
	CompanyName      string `json:"companyName"`
	Designation      string `json:"designation"`
	Field            string `json:"field"`
	ExperienceYears  *int   `json:"experienceYears"`
	AdditionalInfo   string `json:"additionalInfo"`
}

type BusinessDetail struct {
	BusinessName    string `json:"businessName"`
	BusinessType    string `json:"businessType"`
	BusinessField   string `json:"businessField"`
	BusinessCity    string `json:"businessCity"`
	BusinessAddress string `json:"businessAddress"`
	YearsInBusiness *int   `json:"yearsInBusiness"`
	EmployeesCount  *int   `json:"employeesCount"`
	Website         string `json:"website"`
	AdditionalInfo  string `json:"additionalInfo"`
}

func (*StudentDetail) Type() OccupationType  { return OccupationStudent }
func (*JobDetail) Type() OccupationType      { return OccupationJob }
func (*BusinessDetail) Type() OccupationType { return OccupationBusiness }

func (*StudentDetail) isOccupation()  {}
func (*JobDetail) isOccupation()      {}
func (*BusinessDetail) isOccupation() {}

// NewOccupation returns an empty variant for t.
func NewOccupation(t OccupationType) (Occupation, error) {
	switch t {
	case OccupationStudent:
		return &StudentDetail{}, nil
	case OccupationJob:
		return &JobDetail{}, nil
	case OccupationBusiness:
		return &BusinessDetail{}, nil
	}
	return nil, NewValidationError(fmt.Sprintf("unknown occupation type %q", t))
}

// DecodeOccupation parses a variant payload of type t.
func DecodeOccupation(t OccupationType, raw []byte) (Occupation, error) {
	occ, err := NewOccupation(t)
	if err != nil {
		return nil, err
	}
	if EmptyPayload(raw) {
		return nil, NewValidationError(fmt.Sprintf("%s details are required", t))
	}
	if err := json.Unmarshal(raw, occ); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid %s details", t))
	}
	if isBlank(occ) {
		return nil, NewValidationError(fmt.Sprintf("%s details are required", t))
	}
	return occ, nil
}

// EmptyPayload reports whether raw carries no variant object at all.
func EmptyPayload(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func isBlank(o Occupation) bool {
	switch v := o.(type) {
	case *StudentDetail:
		return *v == StudentDetail{}
	case *JobDetail:
		return *v == JobDetail{}
	case *BusinessDetail:
		return *v == BusinessDetail{}
	}
	return true
}

// PatchOccupation overlays the fields present in raw onto o.
// Absent fields keep their current value.
func PatchOccupation(o Occupation, raw []byte) error {
	if EmptyPayload(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, o); err != nil {
		return NewValidationError(fmt.Sprintf("invalid %s details", o.Type()))
	}
	return nil
}
