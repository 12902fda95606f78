package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getSignals(c *gin.Context) {
	if m.SignalJournalRepository == nil {
		returnErrorJsonCode(fmt.Errorf("signal journal is not configured"), c, 404)
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 0 {
			returnErrorJsonCode(fmt.Errorf("invalid limit %q", raw), c, 400)
			return
		}
		limit = l
	}

	rows, err := m.SignalJournalRepository.List(c.Request.Context(), limit)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	c.JSON(200, rows)
}
