package reports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"canine-registry/internal/domain/staff"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Report
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Report{}}
}

func (r *testRepo) Create(ctx context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[rep.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.byID[id]
	if !ok {
		return Report{}, errRepoNotFound
	}
	return rep, nil
}

func (r *testRepo) Update(ctx context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rep.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *testRepo) Bind(ctx context.Context, reportID string, a Assignment, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.byID[reportID]
	if !ok {
		return errRepoNotFound
	}
	if rep.Assignment != nil {
		return ErrAlreadyAssigned
	}
	rep.Assignment = &a
	rep.Status = StatusAssigned
	rep.UpdatedAt = updatedAt
	r.byID[reportID] = rep
	return nil
}

func (r *testRepo) Unbind(ctx context.Context, reportID string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.byID[reportID]
	if !ok {
		return errRepoNotFound
	}
	rep.Assignment = nil
	rep.Status = StatusNew
	rep.UpdatedAt = updatedAt
	r.byID[reportID] = rep
	return nil
}

func (r *testRepo) List(ctx context.Context) ([]Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, 0, len(r.byID))
	for _, rep := range r.byID {
		out = append(out, rep)
	}
	return out, nil
}

func (r *testRepo) ListByAssignee(ctx context.Context, staffID string) ([]Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, 0)
	for _, rep := range r.byID {
		if rep.Assignment != nil && rep.Assignment.AssignedTo == staffID {
			out = append(out, rep)
		}
	}
	return out, nil
}

type testStaffRepo struct {
	byID map[string]staff.Identity
}

func newTestStaffRepo() *testStaffRepo {
	return &testStaffRepo{byID: map[string]staff.Identity{}}
}

func (r *testStaffRepo) Create(ctx context.Context, id staff.Identity) error {
	r.byID[id.ID] = id
	return nil
}

func (r *testStaffRepo) Update(ctx context.Context, id staff.Identity) error {
	r.byID[id.ID] = id
	return nil
}

func (r *testStaffRepo) GetByID(ctx context.Context, id string) (staff.Identity, error) {
	s, ok := r.byID[id]
	if !ok {
		return staff.Identity{}, errRepoNotFound
	}
	return s, nil
}

func (r *testStaffRepo) List(ctx context.Context) ([]staff.Identity, error) {
	out := make([]staff.Identity, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

// -------------------------
// Helpers
// -------------------------

func newTestService() (*Service, *testRepo, *testStaffRepo) {
	repo := newTestRepo()
	staffRepo := newTestStaffRepo()
	return NewService(repo, staffRepo), repo, staffRepo
}

func seedReport(t *testing.T, svc *Service) Report {
	t.Helper()
	rep, err := svc.Create(context.Background(), CreateInput{
		Location:    Location{Address: "Av. Los Incas 123", Zone: "Zona 4"},
		Description: "perro mediano suelto cerca del mercado",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return rep
}

func seedSeguimiento(repo *testStaffRepo, id string) {
	repo.byID[id] = staff.Identity{
		ID:           id,
		Role:         staff.RoleSeguimiento,
		EmployeeCode: "EMP-" + id,
		Active:       true,
	}
}

var admin = Actor{UserID: "admin-1", Role: staff.RoleAdmin}

// -------------------------
// Create
// -------------------------

func TestService_Create_StartsNewUnassigned(t *testing.T) {
	svc, _, _ := newTestService()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rep := seedReport(t, svc)

	if rep.Status != StatusNew {
		t.Fatalf("expected status new, got %s", rep.Status)
	}
	if rep.Assigned() {
		t.Fatalf("expected fresh report to be unassigned")
	}
	if rep.CreatedAt != now || rep.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	if rep.Animal.Urgency != UrgencyMedium {
		t.Fatalf("expected default urgency medium, got %s", rep.Animal.Urgency)
	}
}

func TestService_Create_RequiresLocationAndDescription(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{
		Description: "perro suelto",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without location, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		Location: Location{Zone: "Zona 1"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without description, got %v", err)
	}
}

// -------------------------
// Assign / Unassign
// -------------------------

func TestService_Assign_BindsAndMovesToAssigned(t *testing.T) {
	svc, _, staffRepo := newTestService()
	seedSeguimiento(staffRepo, "staff-3")

	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rep := seedReport(t, svc)

	assigned, err := svc.Assign(context.Background(), admin, rep.ID, "staff-3")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}

	if assigned.Status != StatusAssigned {
		t.Fatalf("expected status assigned, got %s", assigned.Status)
	}
	if assigned.Assignment == nil {
		t.Fatalf("expected binding to be set")
	}
	if assigned.Assignment.AssignedTo != "staff-3" ||
		assigned.Assignment.AssignedBy != "admin-1" ||
		assigned.Assignment.AssignedAt != now {
		t.Fatalf("unexpected binding: %#v", assigned.Assignment)
	}
}

func TestService_Assign_RequiresAdminRole(t *testing.T) {
	svc, _, staffRepo := newTestService()
	seedSeguimiento(staffRepo, "staff-3")
	rep := seedReport(t, svc)

	for _, role := range []staff.Role{staff.RoleOwner, staff.RoleSeguimiento} {
		_, err := svc.Assign(context.Background(), Actor{UserID: "u1", Role: role}, rep.ID, "staff-3")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("role %s: expected ErrUnauthorized, got %v", role, err)
		}
	}

	// super_admin también puede asignar
	_, err := svc.Assign(context.Background(), Actor{UserID: "sa", Role: staff.RoleSuperAdmin}, rep.ID, "staff-3")
	if err != nil {
		t.Fatalf("super_admin Assign error: %v", err)
	}
}

func TestService_Assign_RejectsIneligibleStaff(t *testing.T) {
	svc, _, staffRepo := newTestService()
	rep := seedReport(t, svc)

	_, err := svc.Assign(context.Background(), admin, rep.ID, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown staff, got %v", err)
	}

	staffRepo.byID["inactive"] = staff.Identity{
		ID: "inactive", Role: staff.RoleSeguimiento, Active: false,
	}
	_, err = svc.Assign(context.Background(), admin, rep.ID, "inactive")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for inactive staff, got %v", err)
	}

	staffRepo.byID["not-seg"] = staff.Identity{
		ID: "not-seg", Role: staff.RoleAdmin, Active: true,
	}
	_, err = svc.Assign(context.Background(), admin, rep.ID, "not-seg")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for non-seguimiento staff, got %v", err)
	}
}

func TestService_Assign_SecondAssignLosesRace(t *testing.T) {
	svc, _, staffRepo := newTestService()
	seedSeguimiento(staffRepo, "staff-1")
	seedSeguimiento(staffRepo, "staff-2")
	rep := seedReport(t, svc)

	if _, err := svc.Assign(context.Background(), admin, rep.ID, "staff-1"); err != nil {
		t.Fatalf("Assign #1 error: %v", err)
	}

	_, err := svc.Assign(context.Background(), admin, rep.ID, "staff-2")
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
}

func TestService_Assign_ConcurrentExactlyOneWins(t *testing.T) {
	svc, _, staffRepo := newTestService()
	rep := seedReport(t, svc)

	const n = 16
	for i := 0; i < n; i++ {
		seedSeguimiento(staffRepo, staffID(i))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Assign(context.Background(), admin, rep.ID, staffID(i))
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyAssigned):
			losses++
		default:
			t.Fatalf("unexpected error under race: %v", err)
		}
	}
	if wins != 1 || losses != n-1 {
		t.Fatalf("expected exactly 1 winner, got wins=%d losses=%d", wins, losses)
	}
}

func staffID(i int) string {
	return "staff-" + string(rune('a'+i))
}

func TestService_Unassign_ResetsToNewEvenFromInProgress(t *testing.T) {
	svc, _, staffRepo := newTestService()
	seedSeguimiento(staffRepo, "staff-3")
	rep := seedReport(t, svc)

	if _, err := svc.Assign(context.Background(), admin, rep.ID, "staff-3"); err != nil {
		t.Fatalf("Assign error: %v", err)
	}

	seg := Actor{UserID: "staff-3", Role: staff.RoleSeguimiento}
	if _, err := svc.ChangeStatus(context.Background(), seg, rep.ID, StatusInProgress, ""); err != nil {
		t.Fatalf("ChangeStatus error: %v", err)
	}

	// El reset a new es incondicional (re-triage forzado)
	cleared, err := svc.Unassign(context.Background(), admin, rep.ID)
	if err != nil {
		t.Fatalf("Unassign error: %v", err)
	}
	if cleared.Status != StatusNew {
		t.Fatalf("expected status new after unassign, got %s", cleared.Status)
	}
	if cleared.Assignment != nil {
		t.Fatalf("expected binding cleared, got %#v", cleared.Assignment)
	}
}

func TestService_Unassign_RejectsUnassignedReport(t *testing.T) {
	svc, _, _ := newTestService()
	rep := seedReport(t, svc)

	_, err := svc.Unassign(context.Background(), admin, rep.ID)
	if !errors.Is(err, ErrTransitionInvalid) {
		t.Fatalf("expected ErrTransitionInvalid, got %v", err)
	}
}

func TestService_BindingFieldsTogetherOrNull(t *testing.T) {
	svc, repo, staffRepo := newTestService()
	seedSeguimiento(staffRepo, "staff-3")
	rep := seedReport(t, svc)

	check := func() {
		t.Helper()
		stored, _ := repo.GetByID(context.Background(), rep.ID)
		if stored.Assignment == nil {
			return
		}
		if stored.Assignment.AssignedTo == "" ||
			stored.Assignment.AssignedBy == "" ||
			stored.Assignment.AssignedAt.IsZero() {
			t.Fatalf("binding set but incomplete: %#v", stored.Assignment)
		}
	}

	check()
	_, _ = svc.Assign(context.Background(), admin, rep.ID, "staff-3")
	check()
	_, _ = svc.Unassign(context.Background(), admin, rep.ID)
	check()
}

// -------------------------
// ChangeStatus
// -------------------------

func assignedReport(t *testing.T, svc *Service, staffRepo *testStaffRepo) Report {
	t.Helper()
	seedSeguimiento(staffRepo, "staff-3")
	rep := seedReport(t, svc)
	assigned, err := svc.Assign(context.Background(), admin, rep.ID, "staff-3")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	return assigned
}

func TestService_ChangeStatus_OnlySeguimiento(t *testing.T) {
	svc, _, staffRepo := newTestService()
	rep := assignedReport(t, svc, staffRepo)

	for _, role := range []staff.Role{staff.RoleOwner, staff.RoleAdmin, staff.RoleSuperAdmin} {
		_, err := svc.ChangeStatus(context.Background(), Actor{UserID: "u", Role: role}, rep.ID, StatusInProgress, "")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("role %s: expected ErrUnauthorized, got %v", role, err)
		}
	}
}

func TestService_ChangeStatus_DoneRequiresNotes(t *testing.T) {
	svc, _, staffRepo := newTestService()
	rep := assignedReport(t, svc, staffRepo)
	seg := Actor{UserID: "staff-3", Role: staff.RoleSeguimiento}

	for _, notes := range []string{"", "   ", "\t\n"} {
		_, err := svc.ChangeStatus(context.Background(), seg, rep.ID, StatusDone, notes)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("notes %q: expected ErrValidation, got %v", notes, err)
		}
	}

	done, err := svc.ChangeStatus(context.Background(), seg, rep.ID, StatusDone, "se recogió al animal")
	if err != nil {
		t.Fatalf("ChangeStatus error: %v", err)
	}
	if done.Status != StatusDone || done.StatusNotes != "se recogió al animal" {
		t.Fatalf("unexpected result: status=%s notes=%q", done.Status, done.StatusNotes)
	}
}

func TestService_ChangeStatus_RejectsIllegalTransition(t *testing.T) {
	svc, _, staffRepo := newTestService()
	rep := assignedReport(t, svc, staffRepo)
	seg := Actor{UserID: "staff-3", Role: staff.RoleSeguimiento}

	// no-op
	_, err := svc.ChangeStatus(context.Background(), seg, rep.ID, StatusAssigned, "")
	if !errors.Is(err, ErrTransitionInvalid) {
		t.Fatalf("expected ErrTransitionInvalid for no-op, got %v", err)
	}

	// volver a new por transición directa nunca
	_, err = svc.ChangeStatus(context.Background(), seg, rep.ID, StatusNew, "")
	if !errors.Is(err, ErrTransitionInvalid) {
		t.Fatalf("expected ErrTransitionInvalid for -> new, got %v", err)
	}

	// cerrado es terminal
	if _, err := svc.ChangeStatus(context.Background(), seg, rep.ID, StatusClosed, ""); err != nil {
		t.Fatalf("ChangeStatus to closed error: %v", err)
	}
	_, err = svc.ChangeStatus(context.Background(), seg, rep.ID, StatusInProgress, "")
	if !errors.Is(err, ErrTransitionInvalid) {
		t.Fatalf("expected ErrTransitionInvalid out of closed, got %v", err)
	}
}

func TestService_ChangeStatus_UpdatesTimestampAndPersists(t *testing.T) {
	svc, repo, staffRepo := newTestService()

	t0 := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(30 * time.Minute)
	svc.now = func() time.Time { return t0 }

	rep := assignedReport(t, svc, staffRepo)
	seg := Actor{UserID: "staff-3", Role: staff.RoleSeguimiento}

	svc.now = func() time.Time { return t1 }
	if _, err := svc.ChangeStatus(context.Background(), seg, rep.ID, StatusInProgress, ""); err != nil {
		t.Fatalf("ChangeStatus error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), rep.ID)
	if stored.Status != StatusInProgress {
		t.Fatalf("expected persisted in_progress, got %s", stored.Status)
	}
	if stored.UpdatedAt != t1 {
		t.Fatalf("expected UpdatedAt %v, got %v", t1, stored.UpdatedAt)
	}
}

// -------------------------
// ListAssignedTo
// -------------------------

func TestService_ListAssignedTo_ExcludesUnassigned(t *testing.T) {
	svc, _, staffRepo := newTestService()
	seedSeguimiento(staffRepo, "staff-3")

	rep1 := seedReport(t, svc)
	rep2 := seedReport(t, svc)
	rep3 := seedReport(t, svc)

	for _, id := range []string{rep1.ID, rep2.ID, rep3.ID} {
		if _, err := svc.Assign(context.Background(), admin, id, "staff-3"); err != nil {
			t.Fatalf("Assign %s error: %v", id, err)
		}
	}
	if _, err := svc.Unassign(context.Background(), admin, rep2.ID); err != nil {
		t.Fatalf("Unassign error: %v", err)
	}

	items, err := svc.ListAssignedTo(context.Background(), "staff-3")
	if err != nil {
		t.Fatalf("ListAssignedTo error: %v", err)
	}

	got := map[string]bool{}
	for _, rep := range items {
		got[rep.ID] = true
	}
	if len(got) != 2 || !got[rep1.ID] || !got[rep3.ID] || got[rep2.ID] {
		t.Fatalf("unexpected assignment set: %#v", got)
	}
}
