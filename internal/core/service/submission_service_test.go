package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/codehive/classroom/internal/core/domain"
	"github.com/codehive/classroom/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

// stubSubmissionRepo mirrors the transactional semantics of the Mongo repo:
// Replace either applies both deletes and the insert, or (on injected error)
// applies nothing at all.
type stubSubmissionRepo struct {
	records    []domain.SubmissionRecord
	replaceErr error
}

func (r *stubSubmissionRepo) Replace(_ context.Context, rec *domain.SubmissionRecord) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}

	kept := make([]domain.SubmissionRecord, 0, len(r.records))
	for _, existing := range r.records {
		if existing.Environment == rec.Environment {
			if existing.Username == rec.Username || existing.GroupNumber == rec.GroupNumber {
				continue
			}
		}
		kept = append(kept, existing)
	}
	r.records = append(kept, *rec)
	return nil
}

func (r *stubSubmissionRepo) ListByOwner(_ context.Context, username string, groupNumber int) ([]domain.SubmissionSummary, error) {
	var out []domain.SubmissionSummary
	for _, rec := range r.records {
		if rec.Username == username || rec.GroupNumber == groupNumber {
			out = append(out, domain.SubmissionSummary{
				AssignmentName: rec.Environment,
				LastChanged:    rec.CreatedAt,
			})
		}
	}
	return out, nil
}

// countFor returns how many stored records match (username, environment).
func (r *stubSubmissionRepo) countFor(username, environment string) int {
	n := 0
	for _, rec := range r.records {
		if rec.Username == username && rec.Environment == environment {
			n++
		}
	}
	return n
}

// countForGroup returns how many stored records match (group, environment).
func (r *stubSubmissionRepo) countForGroup(group int, environment string) int {
	n := 0
	for _, rec := range r.records {
		if rec.GroupNumber == group && rec.Environment == environment {
			n++
		}
	}
	return n
}

func newSubmissionServiceAt(repo *stubSubmissionRepo, at time.Time) *submissionService {
	return &submissionService{
		repo: repo,
		log:  zerolog.Nop(),
		now:  func() time.Time { return at },
	}
}

func submitInput(username string, group int, environment string) ports.SubmitInput {
	return ports.SubmitInput{
		Username:    username,
		GroupNumber: group,
		Environment: environment,
		TerminalStates: []domain.TerminalState{
			{State: "passed"},
		},
		Files: []domain.SubmittedFile{
			{Name: "main.py"},
		},
	}
}

// ---------------------------------------------------------------------------
// Submit tests
// ---------------------------------------------------------------------------

func TestSubmissionService_Submit_StoresExactlyOneRecord(t *testing.T) {
	repo := &stubSubmissionRepo{}
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc := newSubmissionServiceAt(repo, t1)

	result, err := svc.Submit(context.Background(), submitInput("alice", 3, "hw1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.SubmittedAt.Equal(t1) {
		t.Errorf("SubmittedAt: want %v, got %v", t1, result.SubmittedAt)
	}

	summaries, err := svc.GetSubmissions(context.Background(), "alice", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected exactly 1 summary, got %d", len(summaries))
	}
	if summaries[0].AssignmentName != "hw1" {
		t.Errorf("AssignmentName: want %q, got %q", "hw1", summaries[0].AssignmentName)
	}
	if !summaries[0].LastChanged.Equal(t1) {
		t.Errorf("LastChanged: want %v, got %v", t1, summaries[0].LastChanged)
	}
}

func TestSubmissionService_Resubmit_SupersedesPrevious(t *testing.T) {
	repo := &stubSubmissionRepo{}
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Minute)

	svc := newSubmissionServiceAt(repo, t1)
	if _, err := svc.Submit(context.Background(), submitInput("alice", 3, "hw1")); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	svc.now = func() time.Time { return t2 }
	if _, err := svc.Submit(context.Background(), submitInput("alice", 3, "hw1")); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if got := repo.countFor("alice", "hw1"); got != 1 {
		t.Fatalf("expected exactly 1 record for (alice, hw1), got %d", got)
	}

	summaries, _ := svc.GetSubmissions(context.Background(), "alice", 3)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if !summaries[0].LastChanged.Equal(t2) {
		t.Errorf("LastChanged must be the second call's time: want %v, got %v", t2, summaries[0].LastChanged)
	}
}

func TestSubmissionService_GroupMemberSubmit_SupersedesTeammate(t *testing.T) {
	repo := &stubSubmissionRepo{}
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	svc := newSubmissionServiceAt(repo, t1)
	if _, err := svc.Submit(context.Background(), submitInput("alice", 3, "hw1")); err != nil {
		t.Fatalf("alice submit: %v", err)
	}

	svc.now = func() time.Time { return t2 }
	if _, err := svc.Submit(context.Background(), submitInput("bob", 3, "hw1")); err != nil {
		t.Fatalf("bob submit: %v", err)
	}

	if got := repo.countForGroup(3, "hw1"); got != 1 {
		t.Fatalf("expected exactly 1 record for (group 3, hw1), got %d", got)
	}

	// Both group members now see bob's submission.
	for _, username := range []string{"alice", "bob"} {
		summaries, err := svc.GetSubmissions(context.Background(), username, 3)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", username, err)
		}
		if len(summaries) != 1 {
			t.Fatalf("%s: expected 1 summary, got %d", username, len(summaries))
		}
		if !summaries[0].LastChanged.Equal(t2) {
			t.Errorf("%s: LastChanged want %v, got %v", username, t2, summaries[0].LastChanged)
		}
	}
}

func TestSubmissionService_Submit_DifferentAssignmentsCoexist(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := newSubmissionServiceAt(repo, time.Now().UTC())

	_, _ = svc.Submit(context.Background(), submitInput("alice", 3, "hw1"))
	_, _ = svc.Submit(context.Background(), submitInput("alice", 3, "hw2"))

	summaries, _ := svc.GetSubmissions(context.Background(), "alice", 3)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries across assignments, got %d", len(summaries))
	}
}

func TestSubmissionService_Submit_DifferentGroupsCoexist(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := newSubmissionServiceAt(repo, time.Now().UTC())

	_, _ = svc.Submit(context.Background(), submitInput("alice", 3, "hw1"))
	_, _ = svc.Submit(context.Background(), submitInput("carol", 4, "hw1"))

	if got := repo.countForGroup(3, "hw1"); got != 1 {
		t.Errorf("group 3: expected 1 record, got %d", got)
	}
	if got := repo.countForGroup(4, "hw1"); got != 1 {
		t.Errorf("group 4: expected 1 record, got %d", got)
	}
}

func TestSubmissionService_Submit_FailureLeavesStateUntouched(t *testing.T) {
	repo := &stubSubmissionRepo{}
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc := newSubmissionServiceAt(repo, t1)

	if _, err := svc.Submit(context.Background(), submitInput("alice", 3, "hw1")); err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	repo.replaceErr = errors.New("transaction aborted")
	if _, err := svc.Submit(context.Background(), submitInput("alice", 3, "hw1")); err == nil {
		t.Fatal("expected error when repo transaction fails, got nil")
	}

	// The previous record must still be visible, unchanged.
	summaries, _ := svc.GetSubmissions(context.Background(), "alice", 3)
	if len(summaries) != 1 {
		t.Fatalf("expected the original record to survive, got %d summaries", len(summaries))
	}
	if !summaries[0].LastChanged.Equal(t1) {
		t.Errorf("LastChanged must be the original time %v, got %v", t1, summaries[0].LastChanged)
	}
}

func TestSubmissionService_GetSubmissions_EmptyForUnknownUser(t *testing.T) {
	repo := &stubSubmissionRepo{}
	svc := newSubmissionServiceAt(repo, time.Now().UTC())

	summaries, err := svc.GetSubmissions(context.Background(), "nobody", 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}
