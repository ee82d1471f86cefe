package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"runway-agent/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScenarioHandler serves the scenario presets directory.
type ScenarioHandler struct {
	scenarioDir string
	log         *logrus.Logger
}

// ResolveScenarioDir returns dir as an absolute path, defaulting to
// examples/scenarios under the working directory.
func ResolveScenarioDir(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err == nil {
			dir = filepath.Join(wd, "examples", "scenarios")
		} else {
			dir = "./examples/scenarios"
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

func NewScenarioHandler(dir string, log *logrus.Logger) *ScenarioHandler {
	dir = ResolveScenarioDir(dir)
	log.WithField("dir", dir).Info("using scenario preset directory")
	return &ScenarioHandler{scenarioDir: dir, log: log}
}

// Dir returns the presets directory in use.
func (h *ScenarioHandler) Dir() string { return h.scenarioDir }

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	presets, err := config.ListScenarioPresets(h.scenarioDir)
	if err != nil {
		h.log.WithError(err).WithField("dir", h.scenarioDir).Error("failed to read scenario presets")
		respondErr(c, err, "SCENARIO_ERROR")
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": presets})
}
