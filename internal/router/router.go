package router

import (
	"database/sql"
	"net/http"

	mem "canine-registry/internal/adapters/storage/memory"
	pg "canine-registry/internal/adapters/storage/postgres"
	"canine-registry/internal/domain/dashboard"
	"canine-registry/internal/domain/pets"
	"canine-registry/internal/domain/reports"
	"canine-registry/internal/domain/staff"
	"canine-registry/internal/middleware"
	"canine-registry/internal/platform/metrics"
	"canine-registry/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev con headers debug)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	m := metrics.New()
	r.Handle("/metrics", m.Handler())

	var (
		reportRepo reports.Repository
		staffRepo  staff.Repository
		petRepo    pets.Repository
	)

	// La decisión de storage es del caller (main abre la DB y falla el
	// arranque si no puede); acá solo se eligen los adapters.
	if opts.DB != nil {
		reportRepo = pg.NewReportsRepo(opts.DB)
		staffRepo = pg.NewStaffRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
	} else {
		reportRepo = mem.NewReportsRepo()
		staffRepo = mem.NewStaffRepo()
		petRepo = mem.NewPetsRepo()
	}

	// Services por módulo
	reportsSvc := reports.NewService(reportRepo, staffRepo)
	staffSvc := staff.NewService(staffRepo)
	petsSvc := pets.NewService(petRepo)
	dashboardSvc := dashboard.NewService(reportRepo, petRepo)

	// Rutas por módulo
	reports.RegisterRoutes(r, reportsSvc, m)
	staff.RegisterRoutes(r, staffSvc)
	pets.RegisterRoutes(r, petsSvc, m)
	dashboard.RegisterRoutes(r, dashboardSvc)

	return r
}
