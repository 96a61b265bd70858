package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"canine-registry/internal/domain/staff"
	"canine-registry/internal/middleware"
	"canine-registry/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, m *metrics.Metrics) {
	r.Route("/reports", func(rr chi.Router) {
		// Alta ciudadana (puede ser anónima)
		rr.Post("/", createReportHandler(svc, m))
		rr.Get("/{reportID}", getReportHandler(svc))

		// Mutaciones de triaje (requieren rol)
		rr.Post("/{reportID}/assign", assignHandler(svc, m))
		rr.Post("/{reportID}/unassign", unassignHandler(svc, m))
		rr.Post("/{reportID}/status", changeStatusHandler(svc, m))
	})

	// Vista "mi trabajo" del personal de seguimiento
	r.Get("/me/reports", myReportsHandler(svc))
}

type createReportRequest struct {
	ReporterName  string   `json:"reporter_name"`
	ReporterPhone string   `json:"reporter_phone"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Address       string   `json:"address"`
	Zone          string   `json:"zone"`
	Breed         string   `json:"breed"`
	Size          string   `json:"size"`
	Colors        []string `json:"colors"`
	Temperament   string   `json:"temperament"`
	Condition     string   `json:"condition"`
	Gender        string   `json:"gender"`
	Urgency       string   `json:"urgency"`
	PhotoRef      string   `json:"photo_ref"`
	Description   string   `json:"description"`
}

type assignRequest struct {
	StaffID string `json:"staff_id"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type assignmentResponse struct {
	AssignedTo string    `json:"assigned_to"`
	AssignedBy string    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

type reportResponse struct {
	ID            string              `json:"id"`
	ReporterName  string              `json:"reporter_name,omitempty"`
	ReporterPhone string              `json:"reporter_phone,omitempty"`
	ReporterID    string              `json:"reporter_user_id,omitempty"`
	Lat           float64             `json:"lat"`
	Lng           float64             `json:"lng"`
	Address       string              `json:"address"`
	Zone          string              `json:"zone"`
	Breed         string              `json:"breed"`
	Size          string              `json:"size"`
	Colors        []string            `json:"colors"`
	Temperament   string              `json:"temperament"`
	Condition     string              `json:"condition"`
	Gender        string              `json:"gender"`
	Urgency       string              `json:"urgency"`
	PhotoRef      string              `json:"photo_ref,omitempty"`
	Description   string              `json:"description"`
	Status        string              `json:"status"`
	StatusLabel   string              `json:"status_label"`
	StatusNotes   string              `json:"status_notes,omitempty"`
	Assignment    *assignmentResponse `json:"assignment,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func createReportHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}

		// Reporter opcional: si hay sesión, vinculamos la cuenta.
		var reporter Reporter
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			reporter.UserID = claims.UserID
		}
		reporter.Name = req.ReporterName
		reporter.Phone = req.ReporterPhone

		created, err := svc.Create(r.Context(), CreateInput{
			Reporter: reporter,
			Location: Location{Lat: req.Lat, Lng: req.Lng, Address: req.Address, Zone: req.Zone},
			Animal: Animal{
				Breed:       req.Breed,
				Size:        req.Size,
				Colors:      req.Colors,
				Temperament: req.Temperament,
				Condition:   req.Condition,
				Gender:      req.Gender,
				Urgency:     Urgency(strings.TrimSpace(req.Urgency)),
			},
			PhotoRef:    req.PhotoRef,
			Description: req.Description,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		m.IncReportsCreated()
		writeJSON(w, http.StatusCreated, toReportResponse(created))
	}
}

func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func assignHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req assignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}

		rep, err := svc.Assign(r.Context(), actor, chi.URLParam(r, "reportID"), req.StaffID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		m.IncAssignment()
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func unassignHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		rep, err := svc.Unassign(r.Context(), actor, chi.URLParam(r, "reportID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		m.IncUnassignment()
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func changeStatusHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req changeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}

		target, valid := ParseStatus(strings.TrimSpace(req.Status))
		if !valid {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown status")
			return
		}

		rep, err := svc.ChangeStatus(r.Context(), actor, chi.URLParam(r, "reportID"), target, req.Notes)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		m.IncTransition(string(target))
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func myReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		items, err := svc.ListAssignedTo(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]reportResponse, 0, len(items))
		for _, rep := range items {
			out = append(out, toReportResponse(rep))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// requireActor exige sesión con rol conocido; arma el Actor explícito
// que viaja a cada operación del dominio.
func requireActor(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
		return Actor{}, false
	}

	role, valid := staff.ParseRole(claims.Role)
	if !valid {
		writeError(w, http.StatusForbidden, "UNAUTHORIZED", "unknown role")
		return Actor{}, false
	}

	return Actor{UserID: claims.UserID, Role: role}, true
}

func toReportResponse(rep Report) reportResponse {
	out := reportResponse{
		ID:            rep.ID,
		ReporterName:  rep.Reporter.Name,
		ReporterPhone: rep.Reporter.Phone,
		ReporterID:    rep.Reporter.UserID,
		Lat:           rep.Location.Lat,
		Lng:           rep.Location.Lng,
		Address:       rep.Location.Address,
		Zone:          rep.Location.Zone,
		Breed:         rep.Animal.Breed,
		Size:          rep.Animal.Size,
		Colors:        rep.Animal.Colors,
		Temperament:   rep.Animal.Temperament,
		Condition:     rep.Animal.Condition,
		Gender:        rep.Animal.Gender,
		Urgency:       string(rep.Animal.Urgency),
		PhotoRef:      rep.PhotoRef,
		Description:   rep.Description,
		Status:        string(rep.Status),
		StatusLabel:   rep.Status.Label(),
		StatusNotes:   rep.StatusNotes,
		CreatedAt:     rep.CreatedAt,
		UpdatedAt:     rep.UpdatedAt,
	}
	if rep.Assignment != nil {
		out.Assignment = &assignmentResponse{
			AssignedTo: rep.Assignment.AssignedTo,
			AssignedBy: rep.Assignment.AssignedBy,
			AssignedAt: rep.Assignment.AssignedAt,
		}
	}
	return out
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusForbidden, "UNAUTHORIZED", "role lacks permission")
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing or invalid field")
	case errors.Is(err, ErrTransitionInvalid):
		writeError(w, http.StatusConflict, "TRANSITION_INVALID", "illegal state change")
	case errors.Is(err, ErrAlreadyAssigned):
		writeError(w, http.StatusConflict, "ALREADY_ASSIGNED", "report already assigned")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "report or staff not found")
	default:
		// No exponemos internals del storage.
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
