package agent

import (
	"testing"
	"time"
)

func TestSaveAndResumeSession_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	ctx := newTestContext(dir)
	ctx.InitialUserRequest = "why does this fail"
	sessionID := generateSessionID()

	outcome := Outcome{Status: Resolved, ConclusionMessage: "fixed it", StepsTaken: 3}

	if err := SaveSession(dir, sessionID, time.Now(), ctx, outcome); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	log, err := ResumeSession(dir, sessionID)
	if err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}

	if log.Meta.ID != sessionID {
		t.Errorf("got session id %q, want %q", log.Meta.ID, sessionID)
	}
	if log.Meta.UUID == "" {
		t.Errorf("expected a non-empty UUID")
	}
	if log.SessionType != "agentic" {
		t.Errorf("got session_type %q, want agentic", log.SessionType)
	}
	if log.TerminalStatus != Resolved {
		t.Errorf("got terminal status %q, want resolved", log.TerminalStatus)
	}
	if log.StepsTaken != 3 {
		t.Errorf("got steps_taken %d, want 3", log.StepsTaken)
	}
}

func TestListSessions_OrdersByMostRecentlyUpdated(t *testing.T) {
	dir := t.TempDir()
	ctx := newTestContext(dir)

	older := generateSessionID()
	if err := SaveSession(dir, older, time.Now().Add(-time.Hour), ctx, Outcome{Status: Resolved}); err != nil {
		t.Fatalf("SaveSession (older): %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	newer := generateSessionID()
	if err := SaveSession(dir, newer, time.Now(), ctx, Outcome{Status: CannotResolve}); err != nil {
		t.Fatalf("SaveSession (newer): %v", err)
	}

	metas, err := ListSessions(dir, 10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d sessions, want 2", len(metas))
	}
	if metas[0].ID != newer {
		t.Errorf("expected the most recently updated session first, got %q", metas[0].ID)
	}
}

func TestListSessions_RespectsMaxCap(t *testing.T) {
	dir := t.TempDir()
	ctx := newTestContext(dir)

	for i := 0; i < 5; i++ {
		id := generateSessionID()
		SaveSession(dir, id, time.Now(), ctx, Outcome{Status: Resolved})
		time.Sleep(time.Millisecond)
	}

	metas, err := ListSessions(dir, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(metas) != 2 {
		t.Errorf("got %d sessions, want 2 (capped)", len(metas))
	}
}

func TestListSessions_EmptyDirReturnsNoError(t *testing.T) {
	dir := t.TempDir()
	metas, err := ListSessions(dir, 10)
	if err != nil {
		t.Fatalf("ListSessions on an empty project dir: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("expected no sessions, got %d", len(metas))
	}
}
