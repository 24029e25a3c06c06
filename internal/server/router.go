// Package server exposes the assessment service over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/riskscope/internal/assessment"
	"github.com/Skufu/riskscope/internal/metrics"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// NewRouter builds the gin engine. db and m may be nil.
func NewRouter(svc *assessment.Service, db HealthChecker, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	h := &handlers{svc: svc}
	api := router.Group("/api")
	api.GET("/conditions", h.listConditions)
	api.GET("/conditions/:id", h.getCondition)
	api.POST("/conditions/:id/assess", h.assess)
	api.POST("/recommendations", h.recommend)
	api.GET("/symptoms", h.listSymptoms)
	api.POST("/symptoms/match", h.matchSymptoms)
	api.POST("/bmi", h.bmi)
	api.GET("/history", h.history)

	return router
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
