package record

import (
	"encoding/json"
	"testing"
)

func TestParseType(t *testing.T) {
	if got := ParseType("jobseeker"); got != TypeJobseeker {
		t.Errorf("expected jobseeker, got %q", got)
	}
	if got := ParseType("job"); got != TypeJob {
		t.Errorf("expected job, got %q", got)
	}
	// Unknown types fall back to job, matching upstream callers.
	if got := ParseType("company"); got != TypeJob {
		t.Errorf("expected job for unknown type, got %q", got)
	}
}

func TestNamespaceCrossing(t *testing.T) {
	tests := []struct {
		typ      Type
		upsertNS string
		searchNS string
	}{
		{TypeJobseeker, NamespaceJobseekers, NamespaceJobs},
		{TypeJob, NamespaceJobs, NamespaceJobseekers},
	}
	for _, tt := range tests {
		if got := tt.typ.Namespace(); got != tt.upsertNS {
			t.Errorf("%s: Namespace() = %q, want %q", tt.typ, got, tt.upsertNS)
		}
		if got := tt.typ.SearchNamespace(); got != tt.searchNS {
			t.Errorf("%s: SearchNamespace() = %q, want %q", tt.typ, got, tt.searchNS)
		}
		// Never matched to themselves.
		if tt.typ.Namespace() == tt.typ.SearchNamespace() {
			t.Errorf("%s: upsert and search namespaces must differ", tt.typ)
		}
	}
}

func TestFieldUnmarshal(t *testing.T) {
	var rec Record
	data := []byte(`{
		"name": "田中",
		"experience_years": 5,
		"desired_salary": 450.5,
		"skills": null,
		"salary_min": "400"
	}`)
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if rec.Name != "田中" {
		t.Errorf("name = %q", rec.Name)
	}
	if rec.ExperienceYears != "5" {
		t.Errorf("experience_years = %q, want 5", rec.ExperienceYears)
	}
	if rec.DesiredSalary != "450.5" {
		t.Errorf("desired_salary = %q, want 450.5", rec.DesiredSalary)
	}
	if rec.Skills != "" {
		t.Errorf("null skills should decode to empty, got %q", rec.Skills)
	}
	if rec.SalaryMin != "400" {
		t.Errorf("salary_min = %q, want 400", rec.SalaryMin)
	}
}

func TestFieldUnmarshal_Invalid(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"name": ["x"]}`), &rec); err == nil {
		t.Error("expected error for array value")
	}
}

func TestSalaryRange(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"both bounds", Record{SalaryMin: "400", SalaryMax: "600"}, "400-600"},
		{"min only", Record{SalaryMin: "400"}, "400-"},
		{"max only", Record{SalaryMax: "600"}, "-600"},
		{"empty", Record{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.SalaryRange(); got != tt.want {
				t.Errorf("SalaryRange() = %q, want %q", got, tt.want)
			}
		})
	}
}
