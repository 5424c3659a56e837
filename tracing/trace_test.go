package tracing

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid trace id, got %q", id)
	}
	if got := GetTraceID(ctx); got != id {
		t.Errorf("expected %q in context, got %q", id, got)
	}

	again, same := EnsureTraceID(ctx)
	if same != id || GetTraceID(again) != id {
		t.Errorf("expected existing trace id to be kept, got %q", same)
	}
}

func TestSetTraceID(t *testing.T) {
	ctx := SetTraceID(context.Background(), "abc")
	if got := GetTraceID(ctx); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace id, got %q", got)
	}
}
