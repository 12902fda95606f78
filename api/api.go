package api

import (
	"etfgrid/internal/app"
	"etfgrid/internal/logger"
	"etfgrid/internal/metrics"
	"etfgrid/internal/repository"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	Monitor                 *app.MonitorApp
	SignalJournalRepository repository.SignalJournalRepository
	JwtSecret               string
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to etfgrid"})
	})
	router.GET("/state", m.getState)
	router.GET("/tiers", m.getTiers)
	router.GET("/rotation", m.getRotation)
	router.GET("/signals", m.getSignals)
	router.GET("/cycles/last", m.getLastCycle)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/evaluate", m.requireAuth(), m.evaluate)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware attaches a request-scoped logger and logs the
// outcome of every request.
func (m ApiHandler) logRequestMiddleware(c *gin.Context) {
	requestID := uuid.New()
	log := logger.FromContext(c.Request.Context()).With("requestId", requestID.String())
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))

	start := time.Now().UTC()
	c.Next()

	log.Infow(
		"request",
		"method", c.Request.Method,
		"route", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
