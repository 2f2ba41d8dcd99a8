// Package record models the caller-owned candidate and job entities and
// the two fixed index namespaces they map onto.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type distinguishes the two sides of the matching index.
type Type string

const (
	TypeJobseeker Type = "jobseeker"
	TypeJob       Type = "job"
)

// Namespace names of the two index partitions.
const (
	NamespaceJobseekers = "jobseekers"
	NamespaceJobs       = "jobs"
)

// ParseType normalizes a caller-supplied record type. Anything other than
// "jobseeker" is treated as a job, matching the upstream CRM callers.
func ParseType(s string) Type {
	if s == string(TypeJobseeker) {
		return TypeJobseeker
	}
	return TypeJob
}

// Namespace returns the partition a record of this type is upserted into.
func (t Type) Namespace() string {
	if t == TypeJobseeker {
		return NamespaceJobseekers
	}
	return NamespaceJobs
}

// SearchNamespace returns the opposite partition, the one queried for
// matches. Namespaces are always crossed at search time, never matched
// to themselves.
func (t Type) SearchNamespace() string {
	if t == TypeJobseeker {
		return NamespaceJobs
	}
	return NamespaceJobseekers
}

// Field is a loosely-typed record value. Callers send both JSON strings
// and numbers for fields like experience_years and salary_min; both decode
// to their literal text.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode field: %w", err)
		}
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode field: %w", err)
	}
	*f = Field(n.String())
	return nil
}

func (f Field) String() string { return string(f) }

// Record is a caller-owned candidate or job entity, identified by an
// external record id supplied per request. Only the recognized fields
// below are read; the record is never persisted by this service.
type Record struct {
	// Jobseeker fields.
	Name            Field `json:"name"`
	Skills          Field `json:"skills"`
	ExperienceYears Field `json:"experience_years"`
	DesiredPosition Field `json:"desired_position"`
	DesiredLocation Field `json:"desired_location"`
	DesiredSalary   Field `json:"desired_salary"`
	SelfPR          Field `json:"self_pr"`

	// Job fields.
	Title              Field `json:"title"`
	RequiredSkills     Field `json:"required_skills"`
	RequiredExperience Field `json:"required_experience"`
	Position           Field `json:"position"`
	Location           Field `json:"location"`
	SalaryMin          Field `json:"salary_min"`
	SalaryMax          Field `json:"salary_max"`
	Description        Field `json:"description"`
}

// SalaryRange renders the job salary bounds as "min-max", or "" when
// neither bound is set.
func (r *Record) SalaryRange() string {
	if r.SalaryMin == "" && r.SalaryMax == "" {
		return ""
	}
	return string(r.SalaryMin) + "-" + string(r.SalaryMax)
}
