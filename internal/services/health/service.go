package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nlp-backend/internal/shared/server/respond"
)

// Status is the payload returned by the health endpoint.
type Status struct {
	OK              bool   `json:"ok"`
	Provider        string `json:"provider"`
	HistoryCapacity int    `json:"historyCapacity"`
}

// Service reports process liveness and the active analyzer setup.
type Service struct {
	provider        string
	historyCapacity int
}

// NewService constructs a new health service.
func NewService(provider string, historyCapacity int) *Service {
	return &Service{provider: provider, historyCapacity: historyCapacity}
}

// Status returns the current health payload.
func (s *Service) Status() Status {
	return Status{OK: true, Provider: s.provider, HistoryCapacity: s.historyCapacity}
}

// Handler serves Status as JSON.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, s.Status())
	}
}
