package services_test

import (
	"errors"
	"strings"
	"testing"

	"cfwai/internal/services"
)

func TestWrapAndUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "download", "fetch", "failed", base)

	var se *services.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServiceError, got %T", err)
	}
	if se.Kind != services.ErrorKindExternal {
		t.Fatalf("unexpected kind %q", se.Kind)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected errors.Is to match the wrapped cause")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatal("expected errors.Is to match the marker")
	}
	if got := err.Error(); !strings.Contains(got, "download") || !strings.Contains(got, "boom") {
		t.Fatalf("unexpected error message: %s", got)
	}
}

func TestWrapDetailAttachesPath(t *testing.T) {
	err := services.WrapDetail(services.ErrExternalTool, "download", "fetch", "failed", nil, "/var/lib/cfwai/logs/fetch.log")
	details := services.Details(err)
	if details.DetailPath != "/var/lib/cfwai/logs/fetch.log" {
		t.Fatalf("expected detail path to be preserved, got %q", details.DetailPath)
	}
	if details.Hint == "" {
		t.Fatal("expected a default hint when a detail path is present")
	}
}

func TestWrapHintSetsCodeAndHint(t *testing.T) {
	err := services.WrapHint(services.ErrValidation, "decision", "match", "low confidence", "E_LOW_CONFIDENCE", "review the match manually", nil)
	details := services.Details(err)
	if details.Code != "E_LOW_CONFIDENCE" {
		t.Fatalf("unexpected code %q", details.Code)
	}
	if details.Hint != "review the match manually" {
		t.Fatalf("unexpected hint %q", details.Hint)
	}
}

func TestFailureStatus(t *testing.T) {
	cases := []struct {
		marker error
		want   services.Status
	}{
		{services.ErrValidation, services.StatusReview},
		{services.ErrConfiguration, services.StatusReview},
		{services.ErrNotFound, services.StatusReview},
		{services.ErrExternalTool, services.StatusFailed},
		{services.ErrTransient, services.StatusFailed},
		{services.ErrTimeout, services.StatusFailed},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "download", "fetch", "failed", nil)
		if got := services.FailureStatus(err); got != tc.want {
			t.Errorf("marker %v: expected status %q, got %q", tc.marker, tc.want, got)
		}
	}
}

func TestDetailsFallsBackForPlainErrors(t *testing.T) {
	plain := errors.New("unstructured failure")
	details := services.Details(plain)
	if details.Kind != services.ErrorKindTransient {
		t.Fatalf("expected transient fallback kind, got %q", details.Kind)
	}
	if details.Message != "unstructured failure" {
		t.Fatalf("unexpected fallback message: %q", details.Message)
	}
}
