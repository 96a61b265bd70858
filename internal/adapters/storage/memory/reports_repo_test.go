package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"canine-registry/internal/domain/reports"
)

func seedReport(t *testing.T, repo reports.Repository, id string) {
	t.Helper()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	err := repo.Create(context.Background(), reports.Report{
		ID:          id,
		Location:    reports.Location{Zone: "Cercado"},
		Description: "avistamiento",
		Status:      reports.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestReportsRepo_BindIsConditional(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()
	seedReport(t, repo, "r-1")

	now := time.Now()
	a := reports.Assignment{AssignedTo: "staff-1", AssignedBy: "admin-1", AssignedAt: now}

	if err := repo.Bind(ctx, "r-1", a, now); err != nil {
		t.Fatalf("first Bind: %v", err)
	}

	rep, err := repo.GetByID(ctx, "r-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rep.Status != reports.StatusAssigned || rep.Assignment == nil || rep.Assignment.AssignedTo != "staff-1" {
		t.Fatalf("unexpected report after bind: %+v", rep)
	}

	// El reporte ya está tomado: el segundo Bind pierde
	b := reports.Assignment{AssignedTo: "staff-2", AssignedBy: "admin-1", AssignedAt: now}
	if err := repo.Bind(ctx, "r-1", b, now); !errors.Is(err, reports.ErrAlreadyAssigned) {
		t.Fatalf("second Bind: err = %v, want ErrAlreadyAssigned", err)
	}

	rep, _ = repo.GetByID(ctx, "r-1")
	if rep.Assignment.AssignedTo != "staff-1" {
		t.Fatalf("losing bind overwrote the assignment")
	}
}

func TestReportsRepo_BindUnknownReport(t *testing.T) {
	repo := NewReportsRepo()

	err := repo.Bind(context.Background(), "missing", reports.Assignment{AssignedTo: "staff-1"}, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReportsRepo_ConcurrentBindHasOneWinner(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()
	seedReport(t, repo, "r-1")

	const contenders = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			a := reports.Assignment{
				AssignedTo: "staff-" + string(rune('a'+n%26)),
				AssignedBy: "admin-1",
				AssignedAt: time.Now(),
			}
			if err := repo.Bind(ctx, "r-1", a, time.Now()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
}

func TestReportsRepo_UnbindResetsBindingAndStatus(t *testing.T) {
	repo := NewReportsRepo()
	ctx := context.Background()
	seedReport(t, repo, "r-1")

	now := time.Now()
	if err := repo.Bind(ctx, "r-1", reports.Assignment{AssignedTo: "staff-1"}, now); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := repo.Unbind(ctx, "r-1", now.Add(time.Minute)); err != nil {
		t.Fatalf("Unbind: %v", err)
	}

	rep, err := repo.GetByID(ctx, "r-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rep.Assignment != nil || rep.Status != reports.StatusNew {
		t.Fatalf("unexpected report after unbind: %+v", rep)
	}

	items, err := repo.ListByAssignee(ctx, "staff-1")
	if err != nil {
		t.Fatalf("ListByAssignee: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("unbound report still listed for assignee")
	}
}
