package api

import (
	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getState(c *gin.Context) {
	c.JSON(200, m.Monitor.State())
}

func (m ApiHandler) getTiers(c *gin.Context) {
	c.JSON(200, m.Monitor.Tiers())
}
