package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

type stubCatalog struct{ size int }

func (s stubCatalog) Size() int { return s.size }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(stubPinger{}, stubChecker{}, stubCatalog{size: 42})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected ok, got %v", report.Status)
	}
	if report.Checks["cache"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
	if report.Listings != 42 {
		t.Errorf("expected 42 listings, got %d", report.Listings)
	}
}

func TestCheck_DegradedOnFailure(t *testing.T) {
	svc := New(stubPinger{}, stubChecker{err: errors.New("down")}, stubCatalog{})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("expected degraded, got %v", report.Status)
	}
	if report.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding error, got %v", report.Checks)
	}
	if report.Checks["cache"] != CheckOK {
		t.Errorf("cache should still report ok, got %v", report.Checks)
	}
}

func TestCheck_NilComponentsSkipped(t *testing.T) {
	svc := New(nil, nil, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("no components means nothing to fail, got %v", report.Status)
	}
	if len(report.Checks) != 0 {
		t.Errorf("expected no checks, got %v", report.Checks)
	}
}
