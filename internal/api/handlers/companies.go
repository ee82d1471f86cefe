package handlers

import (
	"context"
	"net/http"
	"strings"

	"runway-agent/internal/analysis"
	"runway-agent/internal/api/models"
	"runway-agent/internal/forecast"
	"runway-agent/internal/model"
	"runway-agent/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CompanyStore is the persistence behind the companies endpoints.
type CompanyStore interface {
	SaveCompany(ctx context.Context, c store.Company) error
	LoadCompany(ctx context.Context, name string) (*store.Company, error)
	ListCompanies(ctx context.Context) ([]store.Company, error)
	DeleteCompany(ctx context.Context, name string) error
}

// CompanyHandler handles saved company records and their ranking.
type CompanyHandler struct {
	store  CompanyStore
	engine *forecast.Engine
	log    *logrus.Logger
}

func NewCompanyHandler(s CompanyStore, log *logrus.Logger) *CompanyHandler {
	return &CompanyHandler{store: s, engine: forecast.New(), log: log}
}

// ListCompanies handles GET /api/v1/companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	companies, err := h.store.ListCompanies(c.Request.Context())
	if err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	out := make([]models.CompanyResponse, 0, len(companies))
	for _, co := range companies {
		out = append(out, h.buildResponse(co))
	}
	c.JSON(http.StatusOK, gin.H{"companies": out})
}

// SaveCompany handles POST /api/v1/companies
func (h *CompanyHandler) SaveCompany(c *gin.Context) {
	var req models.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if err := req.Competitive.Validate(); err != nil {
		respondErr(c, err, "INVALID_COMPANY")
		return
	}
	fin, err := model.NewFinancialInput(req.Financial)
	if err != nil {
		respondErr(c, err, "INVALID_COMPANY")
		return
	}

	co := store.Company{Name: strings.TrimSpace(req.Name), Competitive: req.Competitive, Financial: fin}
	if err := h.store.SaveCompany(c.Request.Context(), co); err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	saved, err := h.store.LoadCompany(c.Request.Context(), co.Name)
	if err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	c.JSON(http.StatusCreated, h.buildResponse(*saved))
}

// GetCompany handles GET /api/v1/companies/:name
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	co, err := h.store.LoadCompany(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	c.JSON(http.StatusOK, h.buildResponse(*co))
}

// DeleteCompany handles DELETE /api/v1/companies/:name
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	if err := h.store.DeleteCompany(c.Request.Context(), c.Param("name")); err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	c.Status(http.StatusNoContent)
}

// RankCompanies handles GET /api/v1/companies/rank
func (h *CompanyHandler) RankCompanies(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.Limit < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be >= 0")
		return
	}

	companies, err := h.store.ListCompanies(c.Request.Context())
	if err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}

	byName := make(map[string]analysis.Assessment, len(companies))
	var skipped []string
	for _, co := range companies {
		a, err := h.assess(co.Financial)
		if err != nil {
			h.log.WithError(err).WithField("company", co.Name).Warn("skipping company in ranking")
			skipped = append(skipped, co.Name)
			continue
		}
		byName[co.Name] = *a
	}

	ranked := analysis.RankBySurvival(byName)
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}
	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{Rank: i + 1, RankedCompany: r}
	}
	c.JSON(http.StatusOK, models.RankResponse{Rankings: rankings, Skipped: skipped})
}

func (h *CompanyHandler) assess(in model.FinancialInput) (*analysis.Assessment, error) {
	res, err := h.engine.Run(in, nil)
	if err != nil {
		return nil, err
	}
	a := analysis.Assess(res.Ledger)
	return &a, nil
}

// buildResponse attaches scores; a record that can no longer be scored is
// returned without them.
func (h *CompanyHandler) buildResponse(co store.Company) models.CompanyResponse {
	resp := models.CompanyResponse{
		Name:        co.Name,
		UpdatedAt:   co.UpdatedAt,
		Competitive: co.Competitive,
		Financial:   co.Financial,
	}
	if s, err := analysis.ScoreCompetitiveness(co.Competitive); err == nil {
		resp.Scores = &s
	}
	if a, err := h.assess(co.Financial); err == nil {
		resp.Summary = a
	}
	return resp
}
