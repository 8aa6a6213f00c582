package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/airfork/uts-dpm-sub000/internal/model"
)

func amSubmission(id int, at time.Time) model.AutoSubmission {
	return model.AutoSubmission{ID: id, Submitted: at}
}

func newAutogenFixture(t *testing.T, provider ShiftProvider) (*fixture, *autogenService) {
	t.Helper()

	f := newFixture()
	userDpmSvc := NewUserDpmService(f.repo, f.mail, testBaseURL, testLogger())
	svc := NewAutogenService(f.repo, provider, userDpmSvc, time.UTC, testLogger()).(*autogenService)
	return f, svc
}

func TestAutogenPreviewBeforeSubmit(t *testing.T) {
	provider := &mockProvider{shifts: []Shift{
		{Published: "Y", FirstName: "Dana", LastName: "Driver", StartTime: "7:00am", EndTime: "11:00am", ColorID: "2", Block: "[2]"},
		{Published: "Y", FirstName: "Devin", LastName: "Doyle", StartTime: "8:00am", EndTime: "12:00pm", ColorID: "2", Block: "[1]"},
		{Published: "N", FirstName: "Drew", LastName: "Daniels", ColorID: "2", Block: "[3]"},
	}}
	f, svc := newAutogenFixture(t, provider)
	f.addType("Picked Up Block", 1, "2")

	preview, err := svc.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.SubmittedAt != "" {
		t.Errorf("SubmittedAt = %q, want empty before submit", preview.SubmittedAt)
	}
	if len(preview.Dpms) != 2 {
		t.Fatalf("len(Dpms) = %d, want 2", len(preview.Dpms))
	}
	// Ordered by block, not by shift order.
	if preview.Dpms[0].Name != "Devin Doyle" || preview.Dpms[1].Name != "Dana Driver" {
		t.Errorf("order = [%s, %s], want [Devin Doyle, Dana Driver]",
			preview.Dpms[0].Name, preview.Dpms[1].Name)
	}
	if !preview.Dpms[0].Positive {
		t.Error("positive-point candidate not flagged positive")
	}

	if len(f.dpms.dpms) != 0 {
		t.Errorf("preview persisted %d entries, want 0", len(f.dpms.dpms))
	}
	if len(f.subs.subs) != 0 {
		t.Errorf("preview wrote %d markers, want 0", len(f.subs.subs))
	}
}

func TestAutogenPreviewSourceUnavailable(t *testing.T) {
	provider := &mockProvider{err: ErrShiftSourceUnavailable}
	f, svc := newAutogenFixture(t, provider)

	_, err := svc.Preview(context.Background())
	if !errors.Is(err, ErrShiftSourceUnavailable) {
		t.Fatalf("Preview() error = %v, want ErrShiftSourceUnavailable", err)
	}
	if svc.cache != nil {
		t.Error("failed preview mutated the candidate cache")
	}
	if len(f.subs.subs) != 0 {
		t.Error("failed preview wrote a marker")
	}
}

func TestAutogenSubmitOncePerDay(t *testing.T) {
	provider := &mockProvider{shifts: []Shift{
		{Published: "Y", FirstName: "Dana", LastName: "Driver", StartTime: "7:00am", EndTime: "11:00am", ColorID: "2", Block: "[1]"},
	}}
	f, svc := newAutogenFixture(t, provider)
	f.addType("Picked Up Block", 1, "2")
	f.addUser("Dana", "Driver", "driver", nil)
	admin := f.addUser("Ada", "Admin", "admin", nil)

	ctx := context.Background()
	if err := svc.Submit(ctx, admin.ID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(f.dpms.dpms) != 1 {
		t.Fatalf("submit created %d entries, want 1", len(f.dpms.dpms))
	}
	if len(f.subs.subs) != 1 {
		t.Fatalf("submit wrote %d markers, want 1", len(f.subs.subs))
	}

	err := svc.Submit(ctx, admin.ID)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second Submit() error = %v, want ErrAlreadySubmitted", err)
	}
	if len(f.dpms.dpms) != 1 {
		t.Errorf("second submit created entries, total = %d, want 1", len(f.dpms.dpms))
	}
	if len(f.subs.subs) != 1 {
		t.Errorf("second submit wrote a marker, total = %d, want 1", len(f.subs.subs))
	}
}

func TestAutogenSubmitLosesRaceCleanly(t *testing.T) {
	provider := &mockProvider{shifts: []Shift{
		{Published: "Y", FirstName: "Dana", LastName: "Driver", StartTime: "7:00am", EndTime: "11:00am", ColorID: "2", Block: "[1]"},
	}}
	f, svc := newAutogenFixture(t, provider)
	f.addType("Picked Up Block", 1, "2")
	f.addUser("Dana", "Driver", "driver", nil)
	admin := f.addUser("Ada", "Admin", "admin", nil)

	// Another process commits today's batch while this one waits on the
	// submit lock. The marker re-read must see it and back out with no
	// entries of its own.
	f.subs.onLock = func() {
		f.subs.subs = append(f.subs.subs, amSubmission(99, time.Now()))
	}

	err := svc.Submit(context.Background(), admin.ID)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("Submit() error = %v, want ErrAlreadySubmitted", err)
	}
	if len(f.dpms.dpms) != 0 {
		t.Errorf("losing submit created %d entries, want 0", len(f.dpms.dpms))
	}
	if len(f.subs.subs) != 1 {
		t.Errorf("marker count = %d, want only the rival's", len(f.subs.subs))
	}
}

func TestAutogenSubmitPartialFailure(t *testing.T) {
	provider := &mockProvider{shifts: []Shift{
		{Published: "Y", FirstName: "Dana", LastName: "Driver", StartTime: "7:00am", EndTime: "11:00am", ColorID: "2", Block: "[1]"},
		{Published: "Y", FirstName: "Nobody", LastName: "Known", StartTime: "8:00am", EndTime: "12:00pm", ColorID: "2", Block: "[2]"},
	}}
	f, svc := newAutogenFixture(t, provider)
	f.addType("Picked Up Block", 1, "2")
	driver := f.addUser("Dana", "Driver", "driver", nil)
	admin := f.addUser("Ada", "Admin", "admin", nil)

	if err := svc.Submit(context.Background(), admin.ID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(f.dpms.dpms) != 1 {
		t.Fatalf("submit created %d entries, want 1", len(f.dpms.dpms))
	}
	for _, d := range f.dpms.dpms {
		if d.UserID != driver.ID {
			t.Errorf("entry created for user %d, want %d", d.UserID, driver.ID)
		}
	}
	if len(f.subs.subs) != 1 {
		t.Errorf("marker count = %d, want 1 despite the failed candidate", len(f.subs.subs))
	}
}

func TestAutogenPreviewAfterSubmit(t *testing.T) {
	provider := &mockProvider{shifts: []Shift{
		{Published: "Y", FirstName: "Dana", LastName: "Driver", StartTime: "7:00am", EndTime: "11:00am", ColorID: "2", Block: "[1]"},
	}}
	f, svc := newAutogenFixture(t, provider)
	f.addType("Picked Up Block", 1, "2")
	f.addUser("Dana", "Driver", "driver", nil)
	admin := f.addUser("Ada", "Admin", "admin", nil)

	ctx := context.Background()
	if err := svc.Submit(ctx, admin.ID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	fetchesAfterSubmit := provider.calls

	preview, err := svc.Preview(ctx)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.SubmittedAt == "" {
		t.Error("SubmittedAt empty after submit")
	}
	if len(preview.Dpms) != 1 {
		t.Errorf("len(Dpms) = %d, want 1", len(preview.Dpms))
	}
	if provider.calls != fetchesAfterSubmit {
		t.Errorf("preview after submit re-fetched shifts (%d calls, want %d)",
			provider.calls, fetchesAfterSubmit)
	}

	// A restarted process has an empty cache; preview regenerates once.
	svc.cache = nil
	preview, err = svc.Preview(ctx)
	if err != nil {
		t.Fatalf("Preview() after cache loss error = %v", err)
	}
	if len(preview.Dpms) != 1 || preview.SubmittedAt == "" {
		t.Errorf("regenerated preview = %+v, want 1 candidate with SubmittedAt", preview)
	}
	if provider.calls != fetchesAfterSubmit+1 {
		t.Errorf("cache regeneration fetched %d times, want exactly once more", provider.calls-fetchesAfterSubmit)
	}
}

func TestAutogenCleanupSubmissions(t *testing.T) {
	provider := &mockProvider{}
	f, svc := newAutogenFixture(t, provider)

	old := time.Now().Add(-31 * 24 * time.Hour)
	recent := time.Now().Add(-24 * time.Hour)
	f.subs.subs = append(f.subs.subs,
		amSubmission(1, old),
		amSubmission(2, recent),
	)

	if err := svc.CleanupSubmissions(context.Background()); err != nil {
		t.Fatalf("CleanupSubmissions() error = %v", err)
	}
	if len(f.subs.subs) != 1 {
		t.Fatalf("markers remaining = %d, want 1", len(f.subs.subs))
	}
	if !f.subs.subs[0].Submitted.Equal(recent) {
		t.Error("cleanup removed the wrong marker")
	}
}
