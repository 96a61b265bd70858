package dashboard

import (
	"context"
	"errors"
	"sort"
	"strings"

	"canine-registry/internal/domain/pets"
	"canine-registry/internal/domain/reports"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Page es la paginación pedida por la capa de presentación.
type Page struct {
	Number  int
	PerPage int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

type ReportPage struct {
	Items   []reports.Report
	Total   int
	Number  int
	PerPage int
}

// DangerousPet combina la mascota marcada peligrosa con su evidencia de
// compliance (nil mientras el trámite siga detenido).
type DangerousPet struct {
	Pet        pets.Pet
	Compliance *pets.ComplianceRecord
}

type DangerousPetPage struct {
	Items   []DangerousPet
	Total   int
	Number  int
	PerPage int
}

// Service compone las vistas de solo lectura del dashboard. No escribe
// nunca; puede ver datos levemente desactualizados frente a escrituras
// concurrentes.
type Service struct {
	reportRepo reports.Repository
	petRepo    pets.Repository
}

func NewService(reportRepo reports.Repository, petRepo pets.Repository) *Service {
	return &Service{
		reportRepo: reportRepo,
		petRepo:    petRepo,
	}
}

// Reports devuelve todos los reportes, filtrados por texto libre sobre
// reportante/dirección/zona/descripción.
func (s *Service) Reports(ctx context.Context, page Page, query string) (ReportPage, error) {
	items, err := s.reportRepo.List(ctx)
	if err != nil {
		return ReportPage{}, err
	}
	return paginateReports(filterReports(items, query), page), nil
}

// MyAssignments devuelve los reportes vinculados al staff solicitante.
func (s *Service) MyAssignments(ctx context.Context, staffID string, page Page, query string) (ReportPage, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return ReportPage{}, ErrInvalidInput
	}

	items, err := s.reportRepo.ListByAssignee(ctx, staffID)
	if err != nil {
		return ReportPage{}, err
	}
	return paginateReports(filterReports(items, query), page), nil
}

// DangerousPets devuelve las mascotas marcadas peligrosas junto con su
// comprobante, filtradas por nombre/dueño/raza/identificador.
func (s *Service) DangerousPets(ctx context.Context, page Page, query string) (DangerousPetPage, error) {
	items, err := s.petRepo.ListDangerous(ctx)
	if err != nil {
		return DangerousPetPage{}, err
	}

	out := make([]DangerousPet, 0, len(items))
	for _, p := range items {
		if !matchesPet(p, query) {
			continue
		}
		dp := DangerousPet{Pet: p}
		rec, err := s.petRepo.GetComplianceByPet(ctx, p.ID)
		switch {
		case err == nil:
			r := rec
			dp.Compliance = &r
		case errors.Is(err, pets.ErrComplianceNotFound):
			// Trámite detenido: todavía sin evidencia.
		default:
			return DangerousPetPage{}, err
		}
		out = append(out, dp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Pet.CreatedAt.After(out[j].Pet.CreatedAt)
	})

	page = page.normalized()
	total := len(out)
	start, end := pageBounds(total, page)

	return DangerousPetPage{
		Items:   out[start:end],
		Total:   total,
		Number:  page.Number,
		PerPage: page.PerPage,
	}, nil
}

func filterReports(items []reports.Report, query string) []reports.Report {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	out := make([]reports.Report, 0, len(items))
	for _, r := range items {
		if containsFold(r.Reporter.Name, query) ||
			containsFold(r.Location.Address, query) ||
			containsFold(r.Location.Zone, query) ||
			containsFold(r.Description, query) {
			out = append(out, r)
		}
	}
	return out
}

func matchesPet(p pets.Pet, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return containsFold(p.Name, query) ||
		containsFold(p.OwnerUserID, query) ||
		containsFold(p.Breed, query) ||
		containsFold(p.ID, query) ||
		containsFold(p.CUI, query)
}

func paginateReports(items []reports.Report, page Page) ReportPage {
	// Más recientes primero
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	page = page.normalized()
	total := len(items)
	start, end := pageBounds(total, page)

	return ReportPage{
		Items:   items[start:end],
		Total:   total,
		Number:  page.Number,
		PerPage: page.PerPage,
	}
}

func pageBounds(total int, page Page) (int, int) {
	start := (page.Number - 1) * page.PerPage
	if start > total {
		start = total
	}
	end := start + page.PerPage
	if end > total {
		end = total
	}
	return start, end
}

func containsFold(s, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(s), loweredQuery)
}
