package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"runway-agent/internal/api/models"
	"runway-agent/internal/monitor"
	"runway-agent/internal/store"

	"github.com/gin-gonic/gin"
)

// WatchStore is the persistence behind the watchlist and alerts endpoints.
type WatchStore interface {
	Watchlist(ctx context.Context) ([]string, error)
	AddToWatchlist(ctx context.Context, company string) (bool, error)
	RemoveFromWatchlist(ctx context.Context, company string) error
	UnreadAlerts(ctx context.Context) ([]store.Alert, error)
	MarkAlertRead(ctx context.Context, id int64) error
}

// MonitorRunner runs one watchlist sweep.
type MonitorRunner interface {
	RunOnce(ctx context.Context) (*monitor.Report, error)
}

// WatchlistHandler handles the watchlist, its alerts and on-demand monitor runs.
type WatchlistHandler struct {
	store   WatchStore
	monitor MonitorRunner
}

// NewWatchlistHandler creates the handler. A nil monitor disables POST /monitor/run.
func NewWatchlistHandler(s WatchStore, m MonitorRunner) *WatchlistHandler {
	return &WatchlistHandler{store: s, monitor: m}
}

// ListWatchlist handles GET /api/v1/watchlist
func (h *WatchlistHandler) ListWatchlist(c *gin.Context) {
	names, err := h.store.Watchlist(c.Request.Context())
	if err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": names})
}

// AddToWatchlist handles POST /api/v1/watchlist
func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	var req models.WatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	name := strings.TrimSpace(req.Company)
	added, err := h.store.AddToWatchlist(c.Request.Context(), name)
	if err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"company": name, "added": added})
}

// RemoveFromWatchlist handles DELETE /api/v1/watchlist/:name
func (h *WatchlistHandler) RemoveFromWatchlist(c *gin.Context) {
	if err := h.store.RemoveFromWatchlist(c.Request.Context(), c.Param("name")); err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAlerts handles GET /api/v1/alerts (unread alerts, newest first)
func (h *WatchlistHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.store.UnreadAlerts(c.Request.Context())
	if err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// MarkAlertRead handles POST /api/v1/alerts/:id/read
func (h *WatchlistHandler) MarkAlertRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "alert id must be a positive integer")
		return
	}
	if err := h.store.MarkAlertRead(c.Request.Context(), id); err != nil {
		respondErr(c, err, "STORE_ERROR")
		return
	}
	c.Status(http.StatusNoContent)
}

// RunMonitor handles POST /api/v1/monitor/run
func (h *WatchlistHandler) RunMonitor(c *gin.Context) {
	if h.monitor == nil {
		respondError(c, http.StatusServiceUnavailable, "MONITOR_DISABLED", "news monitoring is not configured")
		return
	}
	rep, err := h.monitor.RunOnce(c.Request.Context())
	if errors.Is(err, monitor.ErrAlreadyRunning) {
		respondError(c, http.StatusConflict, "MONITOR_BUSY", err.Error())
		return
	}
	if err != nil {
		respondErr(c, err, "MONITOR_ERROR")
		return
	}
	c.JSON(http.StatusOK, rep)
}
