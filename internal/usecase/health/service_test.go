package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockTables map[string]int

func (m mockTables) Counts() map[string]int { return m }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(mockTables{"dataset": 10, "catalog": 3}, &mockCachePinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["dataset"] != CheckOK {
		t.Errorf("expected dataset %q, got %q", CheckOK, r.Checks["dataset"])
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
	if r.Tables["catalog"] != 3 {
		t.Errorf("expected catalog count 3, got %d", r.Tables["catalog"])
	}
}

func TestCheck_CacheDown(t *testing.T) {
	svc := New(mockTables{"dataset": 10}, &mockCachePinger{err: errors.New("connection refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(mockTables{"dataset": 1}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_EmptyDataset(t *testing.T) {
	svc := New(mockTables{"dataset": 0}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["dataset"] != CheckEmpty {
		t.Errorf("expected dataset %q, got %q", CheckEmpty, r.Checks["dataset"])
	}
}
