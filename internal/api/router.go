package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"runway-agent/internal/agent"
	"runway-agent/internal/api/handlers"
	"runway-agent/internal/api/middleware"
	"runway-agent/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Store is everything the API persists.
type Store interface {
	handlers.CompanyStore
	handlers.WatchStore
}

// Deps wires the router. Monitor and Agent may be nil when their backing
// services are not configured.
type Deps struct {
	Log         *logrus.Logger
	Store       Store
	Monitor     handlers.MonitorRunner
	Tools       *agent.Registry
	Agent       *agent.Agent
	Sessions    *agent.Manager
	ScenarioDir string
	StaticDir   string
	CORSOrigins []string
	Release     bool
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))

	scenarioHandler := handlers.NewScenarioHandler(d.ScenarioDir, d.Log)
	forecastHandler := handlers.NewForecastHandler(scenarioHandler.Dir(), d.Log)
	companyHandler := handlers.NewCompanyHandler(d.Store, d.Log)
	watchlistHandler := handlers.NewWatchlistHandler(d.Store, d.Monitor)
	chatHandler := handlers.NewChatHandler(d.Tools, d.Agent, d.Sessions)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/forecast", forecastHandler.RunForecast)
		api.POST("/forecast/compare", forecastHandler.CompareForecasts)
		api.POST("/forecast/report", forecastHandler.ForecastReport)

		api.POST("/feasibility", handlers.CheckFeasibility)
		api.POST("/competitiveness", handlers.ScoreCompetitiveness)

		api.GET("/scenarios", scenarioHandler.ListScenarios)

		api.GET("/companies", companyHandler.ListCompanies)
		api.POST("/companies", companyHandler.SaveCompany)
		api.GET("/companies/rank", companyHandler.RankCompanies)
		api.GET("/companies/:name", companyHandler.GetCompany)
		api.DELETE("/companies/:name", companyHandler.DeleteCompany)

		api.GET("/watchlist", watchlistHandler.ListWatchlist)
		api.POST("/watchlist", watchlistHandler.AddToWatchlist)
		api.DELETE("/watchlist/:name", watchlistHandler.RemoveFromWatchlist)

		api.GET("/alerts", watchlistHandler.ListAlerts)
		api.POST("/alerts/:id/read", watchlistHandler.MarkAlertRead)

		api.POST("/monitor/run", watchlistHandler.RunMonitor)

		api.GET("/tools", chatHandler.ListTools)
		api.POST("/chat", chatHandler.Chat)
	}

	serveStatic(router, d.StaticDir, d.Log)
	return router
}

// serveStatic serves a built single-page UI from dir when it exists. Unknown
// /api paths still get a JSON 404.
func serveStatic(router *gin.Engine, dir string, log *logrus.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.WithField("dir", dir).Debug("static directory not found, skipping static file serving")
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	index := filepath.Join(dir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	log.WithField("dir", dir).Info("serving static files")
}
