package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"canine-registry/internal/domain/staff"
	"canine-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Get("/reports", allReportsHandler(svc))
		dr.Get("/my-reports", myReportsHandler(svc))
		dr.Get("/dangerous-pets", dangerousPetsHandler(svc))
	})
}

type reportItem struct {
	ID           string    `json:"id"`
	ReporterName string    `json:"reporter_name,omitempty"`
	Address      string    `json:"address"`
	Zone         string    `json:"zone"`
	Description  string    `json:"description"`
	Urgency      string    `json:"urgency"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	AssignedTo   string    `json:"assigned_to,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type reportPageResponse struct {
	Items   []reportItem `json:"items"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

type complianceEvidence struct {
	ReceiptNumber string    `json:"receipt_number"`
	IssueDate     time.Time `json:"issue_date"`
	PayerName     string    `json:"payer_name"`
	AmountPaid    float64   `json:"amount_paid"`
	VoucherRef    string    `json:"voucher_ref,omitempty"`
}

type dangerousPetItem struct {
	ID         string              `json:"id"`
	CUI        string              `json:"cui,omitempty"`
	Name       string              `json:"name"`
	OwnerID    string              `json:"owner_user_id"`
	Breed      string              `json:"breed"`
	Status     string              `json:"status"`
	Compliance *complianceEvidence `json:"compliance,omitempty"`
}

type dangerousPetPageResponse struct {
	Items   []dangerousPetItem `json:"items"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

func allReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		page, query := pageParams(r)
		res, err := svc.Reports(r.Context(), page, query)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toReportPageResponse(res))
	}
}

func myReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}

		page, query := pageParams(r)
		res, err := svc.MyAssignments(r.Context(), claims, page, query)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toReportPageResponse(res))
	}
}

func dangerousPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		page, query := pageParams(r)
		res, err := svc.DangerousPets(r.Context(), page, query)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}

		out := dangerousPetPageResponse{
			Items:   make([]dangerousPetItem, 0, len(res.Items)),
			Total:   res.Total,
			Page:    res.Number,
			PerPage: res.PerPage,
		}
		for _, dp := range res.Items {
			item := dangerousPetItem{
				ID:      dp.Pet.ID,
				CUI:     dp.Pet.CUI,
				Name:    dp.Pet.Name,
				OwnerID: dp.Pet.OwnerUserID,
				Breed:   dp.Pet.Breed,
				Status:  string(dp.Pet.Status),
			}
			if dp.Compliance != nil {
				item.Compliance = &complianceEvidence{
					ReceiptNumber: dp.Compliance.ReceiptNumber,
					IssueDate:     dp.Compliance.IssueDate,
					PayerName:     dp.Compliance.PayerName,
					AmountPaid:    dp.Compliance.AmountPaid,
					VoucherRef:    dp.Compliance.VoucherRef,
				}
			}
			out.Items = append(out.Items, item)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// requireStaff exige sesión con rol de personal (seguimiento o admin);
// devuelve el user ID del solicitante.
func requireStaff(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
		return "", false
	}

	role, valid := staff.ParseRole(claims.Role)
	if !valid || (role != staff.RoleSeguimiento && !role.IsAdmin()) {
		writeError(w, http.StatusForbidden, "UNAUTHORIZED", "staff role required")
		return "", false
	}
	return claims.UserID, true
}

func pageParams(r *http.Request) (Page, string) {
	q := r.URL.Query()

	page := Page{}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		page.Number = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil {
		page.PerPage = v
	}
	return page, q.Get("q")
}

func toReportPageResponse(res ReportPage) reportPageResponse {
	out := reportPageResponse{
		Items:   make([]reportItem, 0, len(res.Items)),
		Total:   res.Total,
		Page:    res.Number,
		PerPage: res.PerPage,
	}
	for _, rep := range res.Items {
		item := reportItem{
			ID:           rep.ID,
			ReporterName: rep.Reporter.Name,
			Address:      rep.Location.Address,
			Zone:         rep.Location.Zone,
			Description:  rep.Description,
			Urgency:      string(rep.Animal.Urgency),
			Status:       string(rep.Status),
			StatusLabel:  rep.Status.Label(),
			CreatedAt:    rep.CreatedAt,
		}
		if rep.Assignment != nil {
			item.AssignedTo = rep.Assignment.AssignedTo
		}
		out.Items = append(out.Items, item)
	}
	return out
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
