package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/aimatch/internal/domain/match"
	"github.com/kailas-cloud/aimatch/internal/domain/profile"
	"github.com/kailas-cloud/aimatch/internal/domain/record"
)

const reasonPromptTmpl = `以下はマッチングした2件の情報です。このマッチングが適している理由を1文で述べてください（日本語・50字程度）。理由のみ出力し、敬語は不要です。

【現在のレコード】
%s

【マッチした候補】
%s

マッチングスコア: %s%%
理由:`

const summaryPromptTmpl = `以下は「現在のレコード」と「マッチした候補の一覧」です。このランキング全体を1〜2文で総合評価してください（日本語・80字程度）。求職者なら求人との相性、求人なら候補者との相性を簡潔に述べ、敬語は不要です。

【現在のレコード】
%s

【マッチした候補（上位）】
%s

総合評価:`

// reasonPrompt builds the per-match prompt from one-line summaries of the
// source record and the candidate, plus the scaled score.
func reasonPrompt(rec *record.Record, typ record.Type, m match.Match) string {
	return fmt.Sprintf(reasonPromptTmpl,
		profile.Summary(rec, typ),
		profile.MatchSummary(m.Metadata, typ),
		formatScore(m.Score),
	)
}

// summaryPrompt builds the whole-list prompt from the source summary and a
// numbered list of the leading matches.
func summaryPrompt(rec *record.Record, typ record.Type, matches []match.Match, top int) string {
	if len(matches) > top {
		matches = matches[:top]
	}
	lines := make([]string, 0, len(matches))
	for i, m := range matches {
		lines = append(lines, profile.MatchLine(m.Metadata, typ, i+1))
	}
	return fmt.Sprintf(summaryPromptTmpl,
		profile.Summary(rec, typ),
		strings.Join(lines, "\n"),
	)
}

// formatScore renders a scaled score without trailing zeros (85.5, 86).
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
