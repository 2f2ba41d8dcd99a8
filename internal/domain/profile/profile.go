// Package profile renders records into the text forms the service submits
// to the vector index and interpolates into generation prompts. All
// functions are pure: the same record and type always produce the same
// output.
package profile

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/aimatch/internal/domain/match"
	"github.com/kailas-cloud/aimatch/internal/domain/record"
)

// summaryFieldLimit caps free-text fields in one-line summaries.
const summaryFieldLimit = 100

// Format renders the canonical profile text for a record. This exact text
// is both embedded at upsert time and submitted as the search query, one
// fixed template per record type.
func Format(r *record.Record, t record.Type) string {
	if t == record.TypeJobseeker {
		return strings.TrimSpace(fmt.Sprintf(
			"氏名: %s\nスキル: %s\n経験年数: %s年\n希望職種: %s\n希望勤務地: %s\n希望年収: %s万円\n自己PR: %s",
			r.Name, r.Skills, r.ExperienceYears, r.DesiredPosition, r.DesiredLocation, r.DesiredSalary, r.SelfPR,
		))
	}
	return strings.TrimSpace(fmt.Sprintf(
		"求人タイトル: %s\n必要スキル: %s\n経験年数: %s年以上\n職種: %s\n勤務地: %s\n年収: %s-%s万円\n仕事内容: %s",
		r.Title, r.RequiredSkills, r.RequiredExperience, r.Position, r.Location, r.SalaryMin, r.SalaryMax, r.Description,
	))
}

// Summary renders a one-line description of the source record for prompt
// construction. Free-text fields are capped at summaryFieldLimit runes.
func Summary(r *record.Record, t record.Type) string {
	if t == record.TypeJobseeker {
		return fmt.Sprintf(
			"求職者: %s | スキル: %s | 希望職種: %s | 希望勤務地: %s | 自己PR: %s",
			r.Name, r.Skills, r.DesiredPosition, r.DesiredLocation,
			truncate(string(r.SelfPR), summaryFieldLimit),
		)
	}
	return fmt.Sprintf(
		"求人: %s | 必要スキル: %s | 職種: %s | 勤務地: %s | 内容: %s",
		r.Title, r.RequiredSkills, r.Position, r.Location,
		truncate(string(r.Description), summaryFieldLimit),
	)
}

// MatchSummary renders a one-line description of a matched candidate. The
// source type selects the wording: a jobseeker's matches are jobs and vice
// versa.
func MatchSummary(m match.Metadata, sourceType record.Type) string {
	if sourceType == record.TypeJobseeker {
		return fmt.Sprintf(
			"求人: %s | スキル: %s | 職種: %s | 勤務地: %s",
			firstNonEmpty(m.Title, m.Name),
			firstNonEmpty(m.RequiredSkills, m.Skills),
			m.Position, m.Location,
		)
	}
	return fmt.Sprintf(
		"求職者: %s | スキル: %s | 希望職種: %s | 希望勤務地: %s",
		m.Name, m.Skills,
		firstNonEmpty(m.DesiredPosition, m.Position),
		firstNonEmpty(m.DesiredLocation, m.Location),
	)
}

// MatchLine renders one numbered entry for the overall-summary prompt.
func MatchLine(m match.Metadata, sourceType record.Type, index int) string {
	if sourceType == record.TypeJobseeker {
		return fmt.Sprintf("%d. %s（%s · %s）", index, firstNonEmpty(m.Title, m.Name), m.Position, m.Location)
	}
	return fmt.Sprintf("%d. %s（%s）", index, m.Name, m.Skills)
}

// MetadataFor builds the small metadata projection stored alongside the
// profile text at upsert time. Fallback chains let one projection serve
// both record types. Length limits are applied by the index client.
func MetadataFor(r *record.Record, t record.Type) match.Metadata {
	return match.Metadata{
		Type:     string(t),
		Name:     firstNonEmpty(string(r.Name), string(r.Title)),
		Skills:   firstNonEmpty(string(r.Skills), string(r.RequiredSkills)),
		Location: firstNonEmpty(string(r.DesiredLocation), string(r.Location)),
		Salary:   firstNonEmpty(string(r.DesiredSalary), r.SalaryRange()),
		Position: firstNonEmpty(string(r.DesiredPosition), string(r.Position)),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate cuts s to at most n runes. Rune-based so Japanese text is not
// split mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
