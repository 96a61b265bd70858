package pets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"canine-registry/internal/middleware"
	"canine-registry/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, m *metrics.Metrics) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", registerPetHandler(svc, m))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))

		// Paso de compliance para razas peligrosas
		pr.Post("/{petID}/compliance", attachComplianceHandler(svc, m))
		pr.Delete("/{petID}/compliance", abandonComplianceHandler(svc))
		pr.Get("/{petID}/compliance", getComplianceHandler(svc))

		// Re-selección de raza tras abandonar compliance
		pr.Put("/{petID}/breed", selectBreedHandler(svc))
	})
}

type registerPetRequest struct {
	Name     string `json:"name"`
	Breed    string `json:"breed"`
	Sex      string `json:"sex"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	PhotoRef string `json:"photo_ref"`

	Compliance *complianceRequest `json:"compliance"`
}

type complianceRequest struct {
	ReceiptNumber string      `json:"receipt_number"`
	IssueDate     string      `json:"issue_date"` // YYYY-MM-DD
	PayerName     string      `json:"payer_name"`
	Amount        json.Number `json:"amount"`
	VoucherRef    string      `json:"voucher_ref"`
}

type selectBreedRequest struct {
	Breed string `json:"breed"`
}

type petResponse struct {
	ID             string    `json:"id"`
	CUI            string    `json:"cui,omitempty"`
	OwnerUserID    string    `json:"owner_user_id"`
	Name           string    `json:"name"`
	Breed          string    `json:"breed"`
	Sex            string    `json:"sex"`
	Color          string    `json:"color,omitempty"`
	Size           string    `json:"size,omitempty"`
	PhotoRef       string    `json:"photo_ref,omitempty"`
	DangerousBreed bool      `json:"dangerous_breed"`
	Status         string    `json:"status"`
	MinFee         *float64  `json:"min_fee,omitempty"` // pista de UI, solo en pending_compliance
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type complianceResponse struct {
	ID               string    `json:"id"`
	PetID            string    `json:"pet_id"`
	IsDangerousBreed bool      `json:"is_dangerous_breed"`
	ReceiptNumber    string    `json:"receipt_number"`
	IssueDate        time.Time `json:"issue_date"`
	PayerName        string    `json:"payer_name"`
	AmountPaid       float64   `json:"amount_paid"`
	VoucherRef       string    `json:"voucher_ref,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func registerPetHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		var req registerPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}

		in := RegisterInput{
			Name:     req.Name,
			Breed:    req.Breed,
			Sex:      req.Sex,
			Color:    req.Color,
			Size:     req.Size,
			PhotoRef: req.PhotoRef,
		}
		if req.Compliance != nil {
			ci, err := toComplianceInput(*req.Compliance)
			if err != nil {
				writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
				return
			}
			in.Compliance = &ci
		}

		p, err := svc.Register(r.Context(), claims.UserID, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if p.Status == StatusRegistered && p.DangerousBreed {
			m.IncComplianceRecord()
		}
		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if p.OwnerUserID != claims.UserID {
			writeError(w, http.StatusForbidden, "UNAUTHORIZED", "not the owner")
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func attachComplianceHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		var req complianceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}

		ci, err := toComplianceInput(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}

		p, err := svc.AttachCompliance(r.Context(), claims.UserID, chi.URLParam(r, "petID"), ci)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		m.IncComplianceRecord()
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func abandonComplianceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		p, err := svc.AbandonCompliance(r.Context(), claims.UserID, chi.URLParam(r, "petID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func getComplianceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if p.OwnerUserID != claims.UserID {
			writeError(w, http.StatusForbidden, "UNAUTHORIZED", "not the owner")
			return
		}

		rec, err := svc.GetCompliance(r.Context(), petID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toComplianceResponse(rec))
	}
}

func selectBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
			return
		}

		var req selectBreedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}

		p, err := svc.SelectBreed(r.Context(), claims.UserID, chi.URLParam(r, "petID"), req.Breed)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func toComplianceInput(req complianceRequest) (ComplianceInput, error) {
	var issueDate time.Time
	if strings.TrimSpace(req.IssueDate) != "" {
		t, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			return ComplianceInput{}, errors.New("issue_date must be YYYY-MM-DD")
		}
		issueDate = t
	}

	return ComplianceInput{
		ReceiptNumber: req.ReceiptNumber,
		IssueDate:     issueDate,
		PayerName:     req.PayerName,
		Amount:        req.Amount.String(),
		VoucherRef:    req.VoucherRef,
	}, nil
}

func toPetResponse(p Pet) petResponse {
	out := petResponse{
		ID:             p.ID,
		CUI:            p.CUI,
		OwnerUserID:    p.OwnerUserID,
		Name:           p.Name,
		Breed:          p.Breed,
		Sex:            string(p.Sex),
		Color:          p.Color,
		Size:           p.Size,
		PhotoRef:       p.PhotoRef,
		DangerousBreed: p.DangerousBreed,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Status == StatusPendingCompliance {
		fee := MinDangerousBreedFee
		out.MinFee = &fee
	}
	return out
}

func toComplianceResponse(rec ComplianceRecord) complianceResponse {
	return complianceResponse{
		ID:               rec.ID,
		PetID:            rec.PetID,
		IsDangerousBreed: rec.IsDangerousBreed,
		ReceiptNumber:    rec.ReceiptNumber,
		IssueDate:        rec.IssueDate,
		PayerName:        rec.PayerName,
		AmountPaid:       rec.AmountPaid,
		VoucherRef:       rec.VoucherRef,
		CreatedAt:        rec.CreatedAt,
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrComplianceRequired):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED",
			fmt.Sprintf("incomplete compliance receipt (suggested minimum fee %.2f)", MinDangerousBreedFee))
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing or invalid field")
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "UNAUTHORIZED", "not the owner")
	case errors.Is(err, ErrBadState):
		writeError(w, http.StatusConflict, "TRANSITION_INVALID", "registration not in expected state")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "pet not found")
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

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
