package handlers

import (
	"net/http"

	"runway-agent/internal/agent"
	"runway-agent/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the assistant and its tools.
type ChatHandler struct {
	tools    *agent.Registry
	agent    *agent.Agent
	sessions *agent.Manager
}

// NewChatHandler creates the handler. A nil assistant leaves the tool list
// readable but answers chat requests with 503.
func NewChatHandler(tools *agent.Registry, a *agent.Agent, sessions *agent.Manager) *ChatHandler {
	if sessions == nil {
		sessions = agent.NewManager(agent.DefaultMemoryTurns)
	}
	return &ChatHandler{tools: tools, agent: a, sessions: sessions}
}

// ListTools handles GET /api/v1/tools
func (h *ChatHandler) ListTools(c *gin.Context) {
	tools := []models.ToolInfo{}
	if h.tools != nil {
		for _, t := range h.tools.List() {
			tools = append(tools, models.ToolInfo{Name: t.Name, Description: t.Description, InputRequired: t.InputRequired})
		}
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if h.agent == nil {
		respondError(c, http.StatusServiceUnavailable, "LLM_NOT_CONFIGURED", "no language model is configured")
		return
	}

	session := h.sessions.Get(req.SessionID)
	ans, err := h.agent.Ask(c.Request.Context(), session, req.Message)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusBadGateway, "AGENT_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.ChatResponse{
		SessionID:  ans.SessionID,
		Output:     ans.Output,
		Iterations: ans.Iterations,
		Stopped:    ans.Stopped,
		Steps:      ans.Steps,
	})
}
