package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"runway-agent/internal/analysis"
	"runway-agent/internal/api/models"
	"runway-agent/internal/config"
	"runway-agent/internal/forecast"
	"runway-agent/internal/model"
	"runway-agent/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ForecastHandler handles forecast-related requests
type ForecastHandler struct {
	scenarioDir string
	log         *logrus.Logger
}

// NewForecastHandler creates a forecast handler resolving presets from scenarioDir.
func NewForecastHandler(scenarioDir string, log *logrus.Logger) *ForecastHandler {
	return &ForecastHandler{scenarioDir: scenarioDir, log: log}
}

// forecastRun is one resolved, executed and scored configuration.
type forecastRun struct {
	cfg         config.Config
	result      *forecast.Result
	assessment  analysis.Assessment
	feasibility *analysis.Feasibility
}

// RunForecast handles POST /api/v1/forecast
func (h *ForecastHandler) RunForecast(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	run, err := h.run(req.Config)
	if err != nil {
		respondErr(c, err, "FORECAST_ERROR")
		return
	}
	c.JSON(http.StatusOK, h.buildResponse(run, req.Options))
}

// CompareForecasts handles POST /api/v1/forecast/compare
func (h *ForecastHandler) CompareForecasts(c *gin.Context) {
	var req models.CompareForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	base, err := h.resolve(req.Base)
	if err != nil {
		respondErr(c, err, "FORECAST_ERROR")
		return
	}
	baseRun, err := h.execute(base)
	if err != nil {
		respondErr(c, err, "FORECAST_ERROR")
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations)+1)
	comparison = append(comparison, comparisonResult("baseline", baseRun))

	for _, variation := range req.Variations {
		merged, err := h.mergeVariation(base, variation)
		if err == nil {
			var run *forecastRun
			if run, err = h.execute(merged); err == nil {
				comparison = append(comparison, comparisonResult(variation.Name, run))
				continue
			}
		}
		detail := models.ErrorDetail{Code: "FORECAST_ERROR", Message: err.Error()}
		if model.IsInputError(err) {
			detail = inputErrorDetail(err)
		}
		comparison = append(comparison, models.ComparisonResult{Name: variation.Name, Error: &detail})
	}

	c.JSON(http.StatusOK, models.CompareForecastResponse{Comparison: comparison})
}

// ForecastReport handles POST /api/v1/forecast/report?format=md|html
func (h *ForecastHandler) ForecastReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "md"))
	if format != "md" && format != "html" {
		respondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be md or html")
		return
	}

	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	run, err := h.run(req.Config)
	if err != nil {
		respondErr(c, err, "FORECAST_ERROR")
		return
	}

	title := "Financial Scenario Analysis"
	if run.cfg.Company != "" {
		title += ": " + run.cfg.Company
	}
	md := report.Markdown(run.result.Ledger, run.assessment, report.Options{
		Title:       title,
		Feasibility: run.feasibility,
	})
	if format == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}

	page, err := report.HTML(title, md)
	if err != nil {
		respondErr(c, err, "REPORT_ERROR")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Helper methods

func (h *ForecastHandler) run(cfg config.Config) (*forecastRun, error) {
	resolved, err := h.resolve(cfg)
	if err != nil {
		return nil, err
	}
	return h.execute(resolved)
}

// resolve loads the scenario preset, if any, and merges the inline scenario onto it.
func (h *ForecastHandler) resolve(cfg config.Config) (config.Config, error) {
	if cfg.ScenarioFile == "" {
		return cfg, nil
	}
	preset, err := config.ResolvePreset(h.scenarioDir, cfg.ScenarioFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, &model.ValidationError{Field: "scenario_file", Reason: fmt.Sprintf("unknown preset %q", cfg.ScenarioFile)}
		}
		h.log.WithError(err).WithField("preset", cfg.ScenarioFile).Warn("failed to load scenario preset")
		return cfg, err
	}
	cfg.Scenario = config.MergeScenario(preset, cfg.Scenario)
	return cfg, nil
}

func (h *ForecastHandler) execute(cfg config.Config) (*forecastRun, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start, err := cfg.StartMonth()
	if err != nil {
		return nil, err
	}

	result, err := forecast.NewAt(start).Run(cfg.Financial.ToModel(), cfg.ScenarioModel())
	if err != nil {
		return nil, err
	}

	run := &forecastRun{cfg: cfg, result: result, assessment: analysis.Assess(result.Ledger)}
	if p := cfg.Project; p != nil && p.DurationMonths > 0 {
		f := analysis.CheckFeasibility(run.assessment.RunwayMonths, p.DurationMonths, p.Buffer(analysis.DefaultBufferMonths))
		run.feasibility = &f
	}
	return run, nil
}

func (h *ForecastHandler) mergeVariation(base config.Config, v models.ScenarioVariation) (config.Config, error) {
	merged := base
	merged.ScenarioFile = ""
	sc := base.Scenario
	if v.Preset != "" {
		preset, err := config.ResolvePreset(h.scenarioDir, v.Preset)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return merged, &model.ValidationError{Field: "preset", Reason: fmt.Sprintf("unknown preset %q", v.Preset)}
			}
			return merged, err
		}
		sc = config.MergeScenario(sc, preset)
	}
	merged.Scenario = config.MergeScenario(sc, v.Scenario)
	return merged, nil
}

func (h *ForecastHandler) buildResponse(run *forecastRun, opts models.ForecastOptions) models.ForecastResponse {
	resp := models.ForecastResponse{
		Company:      run.cfg.Company,
		Status:       "completed",
		StartingCash: run.result.StartingCash.InexactFloat64(),
		Summary:      run.assessment,
		Feasibility:  run.feasibility,
		Window:       window(run.result.Ledger),
	}
	if run.cfg.ScenarioModel() != nil {
		sc := run.cfg.Scenario
		resp.Scenario = &sc
	}
	if opts.IncludeLedger {
		resp.Ledger = run.result.Ledger
	}
	if opts.IncludeDetail {
		resp.Detail = detailRows(run.result.Detail)
	}
	return resp
}

func comparisonResult(name string, run *forecastRun) models.ComparisonResult {
	out := models.ComparisonResult{Name: name, Summary: &run.assessment}
	if run.cfg.ScenarioModel() != nil {
		sc := run.cfg.Scenario
		out.Scenario = &sc
	}
	return out
}

func window(ledger []forecast.Row) models.ForecastWindow {
	if len(ledger) == 0 {
		return models.ForecastWindow{}
	}
	return models.ForecastWindow{
		Start:  ledger[0].Month,
		End:    ledger[len(ledger)-1].Month,
		Months: len(ledger),
	}
}

func detailRows(detail []forecast.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, len(detail))
	for i, r := range detail {
		out[i] = models.LedgerRow{
			Index:            r.Index,
			Month:            r.Label(),
			RecurringRevenue: r.RecurringRevenue.Round(2).InexactFloat64(),
			ContractReceipts: r.ContractReceipts.Round(2).InexactFloat64(),
			ScenarioRevenue:  r.ScenarioRevenue.Round(2).InexactFloat64(),
			TotalInflow:      r.TotalInflow.Round(2).InexactFloat64(),
			RecurringBurn:    r.RecurringBurn.Round(2).InexactFloat64(),
			ScenarioBurn:     r.ScenarioBurn.Round(2).InexactFloat64(),
			TotalOutflow:     r.TotalOutflow.Round(2).InexactFloat64(),
			NetCashFlow:      r.NetCashFlow.Round(2).InexactFloat64(),
			EndingCash:       r.EndingCash.Round(2).InexactFloat64(),
		}
	}
	return out
}
