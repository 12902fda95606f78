package api

import (
	"etfgrid/internal/domain"

	"github.com/gin-gonic/gin"
)

type getRotationResponse struct {
	Enabled bool                 `json:"enabled"`
	Plan    *domain.RotationPlan `json:"plan,omitempty"`
}

func (m ApiHandler) getRotation(c *gin.Context) {
	plan := m.Monitor.Rotation(c.Request.Context())
	c.JSON(200, getRotationResponse{
		Enabled: plan != nil,
		Plan:    plan,
	})
}
