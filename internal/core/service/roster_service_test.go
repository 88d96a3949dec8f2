package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/codehive/classroom/internal/core/domain"
	"github.com/codehive/classroom/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

// stubRosterRepo mirrors the transactional semantics of the Mongo repo: the
// whole membership change is staged on a copy and committed only when no step
// fails, so an injected failure leaves every course set untouched.
type stubRosterRepo struct {
	courses map[string][]string // userID -> course set
	failOn  string              // "add" or "remove" forces that step to fail
}

func newStubRosterRepo() *stubRosterRepo {
	return &stubRosterRepo{courses: make(map[string][]string)}
}

func (r *stubRosterRepo) UpdateMembership(_ context.Context, addIDs, removeIDs []string, courseID string) error {
	staged := make(map[string][]string, len(r.courses))
	for id, set := range r.courses {
		staged[id] = append([]string(nil), set...)
	}

	if r.failOn == "add" {
		return domain.ErrRosterAborted
	}
	for _, id := range addIDs {
		if !contains(staged[id], courseID) {
			staged[id] = append(staged[id], courseID)
		}
	}

	if r.failOn == "remove" {
		return domain.ErrRosterAborted
	}
	for _, id := range removeIDs {
		kept := staged[id][:0]
		for _, c := range staged[id] {
			if c != courseID {
				kept = append(kept, c)
			}
		}
		staged[id] = kept
	}

	r.courses = staged
	return nil
}

func (r *stubRosterRepo) ListCourses(_ context.Context) ([]*domain.CourseRecord, error) {
	return nil, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// UpdateCourseMembership tests
// ---------------------------------------------------------------------------

func TestRosterService_Update_AddAndRemove(t *testing.T) {
	repo := newStubRosterRepo()
	repo.courses["u1"] = []string{}
	repo.courses["u2"] = []string{"c1"}
	svc := NewRosterService(repo, zerolog.Nop())

	result := svc.UpdateCourseMembership(context.Background(), ports.MembershipUpdateInput{
		AddUserIDs:    []string{"u1"},
		RemoveUserIDs: []string{"u2"},
		CourseID:      "c1",
	})

	if result.Error {
		t.Fatalf("unexpected failure: %s", result.Message)
	}
	if !contains(repo.courses["u1"], "c1") {
		t.Error("u1 must now have c1")
	}
	if contains(repo.courses["u2"], "c1") {
		t.Error("u2 must no longer have c1")
	}
}

func TestRosterService_Update_RepeatedAddKeepsSetSemantics(t *testing.T) {
	repo := newStubRosterRepo()
	repo.courses["u1"] = []string{"c1"}
	svc := NewRosterService(repo, zerolog.Nop())

	result := svc.UpdateCourseMembership(context.Background(), ports.MembershipUpdateInput{
		AddUserIDs: []string{"u1"},
		CourseID:   "c1",
	})

	if result.Error {
		t.Fatalf("unexpected failure: %s", result.Message)
	}
	count := 0
	for _, c := range repo.courses["u1"] {
		if c == "c1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected c1 exactly once, found %d occurrences", count)
	}
}

func TestRosterService_Update_RemoveWinsWhenIDInBothLists(t *testing.T) {
	repo := newStubRosterRepo()
	repo.courses["u1"] = []string{}
	svc := NewRosterService(repo, zerolog.Nop())

	result := svc.UpdateCourseMembership(context.Background(), ports.MembershipUpdateInput{
		AddUserIDs:    []string{"u1"},
		RemoveUserIDs: []string{"u1"},
		CourseID:      "c1",
	})

	if result.Error {
		t.Fatalf("unexpected failure: %s", result.Message)
	}
	if contains(repo.courses["u1"], "c1") {
		t.Error("removal is applied second: u1 must end without c1")
	}
}

func TestRosterService_Update_AbortLeavesNoPartialState(t *testing.T) {
	repo := newStubRosterRepo()
	repo.courses["u1"] = []string{}
	repo.courses["u2"] = []string{"c1"}
	repo.failOn = "remove" // add step would succeed, remove step fails
	svc := NewRosterService(repo, zerolog.Nop())

	result := svc.UpdateCourseMembership(context.Background(), ports.MembershipUpdateInput{
		AddUserIDs:    []string{"u1"},
		RemoveUserIDs: []string{"u2"},
		CourseID:      "c1",
	})

	if !result.Error {
		t.Fatal("expected the transaction to report failure")
	}
	if result.Message == "" {
		t.Error("failure result must carry a message")
	}
	// No user's course set may differ from before the call.
	if contains(repo.courses["u1"], "c1") {
		t.Error("aborted transaction must not leave u1 with c1")
	}
	if !contains(repo.courses["u2"], "c1") {
		t.Error("aborted transaction must not strip c1 from u2")
	}
}

func TestRosterService_Update_EmptyListsSucceed(t *testing.T) {
	repo := newStubRosterRepo()
	svc := NewRosterService(repo, zerolog.Nop())

	result := svc.UpdateCourseMembership(context.Background(), ports.MembershipUpdateInput{CourseID: "c1"})
	if result.Error {
		t.Errorf("empty update must commit trivially, got %s", result.Message)
	}
}

// ---------------------------------------------------------------------------
// ListAllCourses tests
// ---------------------------------------------------------------------------

type failingRosterRepo struct {
	stubRosterRepo
}

func (r *failingRosterRepo) ListCourses(_ context.Context) ([]*domain.CourseRecord, error) {
	return nil, errors.New("db unavailable")
}

func TestRosterService_ListAllCourses_PropagatesError(t *testing.T) {
	svc := NewRosterService(&failingRosterRepo{}, zerolog.Nop())

	if _, err := svc.ListAllCourses(context.Background()); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}
