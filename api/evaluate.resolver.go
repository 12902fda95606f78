package api

import (
	"etfgrid/internal/app"
	"etfgrid/internal/domain"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

type evaluateAssetResponse struct {
	Name    string      `json:"name"`
	Price   *float64    `json:"price,omitempty"`
	Grid    *int        `json:"grid,omitempty"`
	Tier    domain.Tier `json:"tier"`
	Signals int         `json:"signals"`
	Error   *string     `json:"error,omitempty"`
}

type evaluateResponse struct {
	RunID       string                  `json:"runId"`
	Time        time.Time               `json:"time"`
	InSession   bool                    `json:"inSession"`
	DailyPushed bool                    `json:"dailyPushed"`
	Assets      []evaluateAssetResponse `json:"assets"`
	Signals     []domain.Signal         `json:"signals"`
	Rotation    *domain.RotationPlan    `json:"rotation,omitempty"`
	NotifyError *string                 `json:"notifyError,omitempty"`
}

func newEvaluateResponse(result *app.CycleResult) evaluateResponse {
	out := evaluateResponse{
		RunID:       result.RunID.String(),
		Time:        result.Time,
		InSession:   result.InSession,
		DailyPushed: result.DailyPushed,
		Assets:      []evaluateAssetResponse{},
		Signals:     result.Signals,
		Rotation:    result.Rotation,
	}
	if out.Signals == nil {
		out.Signals = []domain.Signal{}
	}
	for _, a := range result.Assets {
		r := evaluateAssetResponse{
			Name:    a.Name,
			Price:   a.Price,
			Grid:    a.Grid,
			Tier:    a.Tier,
			Signals: len(a.Signals),
		}
		if a.Err != nil {
			msg := a.Err.Error()
			r.Error = &msg
		}
		out.Assets = append(out.Assets, r)
	}
	if result.NotifyErr != nil {
		msg := result.NotifyErr.Error()
		out.NotifyError = &msg
	}
	return out
}

func (m ApiHandler) evaluate(c *gin.Context) {
	result, err := m.Monitor.RunCycle(c.Request.Context())
	if err != nil && result == nil {
		returnErrorJson(err, c)
		return
	}

	// state was evaluated but could not be persisted
	if err != nil {
		c.JSON(500, newEvaluateResponse(result))
		return
	}
	c.JSON(200, newEvaluateResponse(result))
}

func (m ApiHandler) getLastCycle(c *gin.Context) {
	result := m.Monitor.LastCycle()
	if result == nil {
		returnErrorJsonCode(fmt.Errorf("no cycle has run yet"), c, 404)
		return
	}
	c.JSON(200, newEvaluateResponse(result))
}
