package staff

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"canine-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/staff", func(sr chi.Router) {
		sr.Post("/", createStaffHandler(svc))
		sr.Get("/", listStaffHandler(svc))
		sr.Get("/{staffID}", getStaffHandler(svc))
		sr.Post("/{staffID}/deactivate", deactivateStaffHandler(svc))
	})
}

type createStaffRequest struct {
	Role         string `json:"role"`
	EmployeeCode string `json:"employee_code"`
	Zone         string `json:"zone"`
}

type staffResponse struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	EmployeeCode string    `json:"employee_code"`
	Active       bool      `json:"active"`
	Zone         string    `json:"zone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func createStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := requireRole(w, r)
		if !ok {
			return
		}

		var req createStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}

		id, err := svc.Create(r.Context(), role, CreateInput{
			Role:         req.Role,
			EmployeeCode: req.EmployeeCode,
			Zone:         req.Zone,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toStaffResponse(id))
	}
}

func listStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := requireRole(w, r)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), role)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]staffResponse, 0, len(items))
		for _, id := range items {
			out = append(out, toStaffResponse(id))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireRole(w, r); !ok {
			return
		}

		id, err := svc.GetByID(r.Context(), chi.URLParam(r, "staffID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStaffResponse(id))
	}
}

func deactivateStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := requireRole(w, r)
		if !ok {
			return
		}

		id, err := svc.Deactivate(r.Context(), role, chi.URLParam(r, "staffID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStaffResponse(id))
	}
}

func requireRole(w http.ResponseWriter, r *http.Request) (Role, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
		return "", false
	}

	role, valid := ParseRole(claims.Role)
	if !valid {
		writeError(w, http.StatusForbidden, "UNAUTHORIZED", "unknown role")
		return "", false
	}
	return role, true
}

func toStaffResponse(id Identity) staffResponse {
	return staffResponse{
		ID:           id.ID,
		Role:         string(id.Role),
		EmployeeCode: id.EmployeeCode,
		Active:       id.Active,
		Zone:         id.Zone,
		CreatedAt:    id.CreatedAt,
		UpdatedAt:    id.UpdatedAt,
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusForbidden, "UNAUTHORIZED", "role lacks permission")
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing or invalid field")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "staff not found")
	default:
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
