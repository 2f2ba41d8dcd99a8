package matching

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aimatch/internal/domain/match"
	"github.com/kailas-cloud/aimatch/internal/domain/record"
)

// --- Mocks ---

type mockIndex struct {
	hits []match.Hit
	err  error

	upsertNamespace string
	upsertID        string
	upsertText      string
	upsertMeta      match.Metadata

	searchNamespace string
	searchText      string
	searchTopK      int
}

func (m *mockIndex) Upsert(_ context.Context, namespace, id, text string, meta match.Metadata) error {
	m.upsertNamespace = namespace
	m.upsertID = id
	m.upsertText = text
	m.upsertMeta = meta
	return m.err
}

func (m *mockIndex) Search(_ context.Context, namespace, queryText string, topK int) ([]match.Hit, error) {
	m.searchNamespace = namespace
	m.searchText = queryText
	m.searchTopK = topK
	return m.hits, m.err
}

func (m *mockIndex) Stats(_ context.Context) (map[string]any, error) {
	return map[string]any{"totalRecordCount": 1}, m.err
}

func jobseekerRecord() *record.Record {
	return &record.Record{Name: "田中", Skills: "Python, AWS"}
}

// --- Tests ---

func TestUpsert_NamespaceByType(t *testing.T) {
	idx := &mockIndex{}
	svc := New(idx, zap.NewNop())

	if err := svc.Upsert(context.Background(), "js1", jobseekerRecord(), record.TypeJobseeker); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if idx.upsertNamespace != record.NamespaceJobseekers {
		t.Errorf("namespace = %q, want jobseekers", idx.upsertNamespace)
	}
	if idx.upsertID != "js1" {
		t.Errorf("id = %q", idx.upsertID)
	}
	if !strings.HasPrefix(idx.upsertText, "氏名: 田中\nスキル: Python, AWS") {
		t.Errorf("unexpected profile text: %q", idx.upsertText)
	}
	if idx.upsertMeta.Name != "田中" || idx.upsertMeta.Type != "jobseeker" {
		t.Errorf("unexpected metadata: %+v", idx.upsertMeta)
	}

	if err := svc.Upsert(context.Background(), "j1", &record.Record{Title: "求人"}, record.TypeJob); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if idx.upsertNamespace != record.NamespaceJobs {
		t.Errorf("namespace = %q, want jobs", idx.upsertNamespace)
	}
}

func TestRank_CrossesNamespace(t *testing.T) {
	tests := []struct {
		typ    record.Type
		wantNS string
	}{
		{record.TypeJobseeker, record.NamespaceJobs},
		{record.TypeJob, record.NamespaceJobseekers},
	}
	for _, tt := range tests {
		idx := &mockIndex{}
		svc := New(idx, zap.NewNop())

		if _, err := svc.Rank(context.Background(), "r1", jobseekerRecord(), tt.typ, 5); err != nil {
			t.Fatalf("rank: %v", err)
		}
		if idx.searchNamespace != tt.wantNS {
			t.Errorf("%s: search namespace = %q, want %q", tt.typ, idx.searchNamespace, tt.wantNS)
		}
	}
}

func TestRank_ScalesScoresAndPreservesOrder(t *testing.T) {
	idx := &mockIndex{hits: []match.Hit{
		{ID: "job1", Score: 0.855, Fields: match.Metadata{Name: "求人A"}},
		{ID: "job2", Score: 0.9},
		{ID: "job3", Score: 0.1234},
	}}
	svc := New(idx, zap.NewNop())

	matches, err := svc.Rank(context.Background(), "js1", jobseekerRecord(), record.TypeJobseeker, 5)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}

	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	// Backend order kept verbatim even when not descending.
	if matches[0].ID != "job1" || matches[1].ID != "job2" || matches[2].ID != "job3" {
		t.Errorf("order changed: %v %v %v", matches[0].ID, matches[1].ID, matches[2].ID)
	}
	if matches[0].Score != 85.5 || matches[1].Score != 90 || matches[2].Score != 12.3 {
		t.Errorf("unexpected scores: %v %v %v", matches[0].Score, matches[1].Score, matches[2].Score)
	}
	if matches[0].Metadata.Name != "求人A" {
		t.Errorf("metadata not carried: %+v", matches[0].Metadata)
	}
	if matches[0].Reason != nil {
		t.Error("rank must not set reasons")
	}
}

func TestRank_DefaultTopK(t *testing.T) {
	idx := &mockIndex{}
	svc := New(idx, zap.NewNop()).WithDefaultTopK(7)

	if _, err := svc.Rank(context.Background(), "js1", jobseekerRecord(), record.TypeJobseeker, 0); err != nil {
		t.Fatalf("rank: %v", err)
	}
	if idx.searchTopK != 7 {
		t.Errorf("topK = %d, want 7", idx.searchTopK)
	}
}

func TestRank_BackendError(t *testing.T) {
	idx := &mockIndex{err: errors.New("backend down")}
	svc := New(idx, zap.NewNop())

	_, err := svc.Rank(context.Background(), "js1", jobseekerRecord(), record.TypeJobseeker, 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "backend down") {
		t.Errorf("cause not wrapped: %v", err)
	}
}

func TestRank_EmptyHits(t *testing.T) {
	idx := &mockIndex{hits: nil}
	svc := New(idx, zap.NewNop())

	matches, err := svc.Rank(context.Background(), "js1", jobseekerRecord(), record.TypeJobseeker, 5)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("expected non-nil empty slice, got %v", matches)
	}
}
