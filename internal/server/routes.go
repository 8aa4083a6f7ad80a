package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Analysis API
	s.echo.POST("/api/classify", s.handleClassify)
	s.echo.POST("/api/combine", s.handleCombine)
	s.echo.POST("/api/feedback", s.handleFeedback)
	s.echo.GET("/api/speakers/:id/arc", s.handleSpeakerArc)

	// Live result feed
	s.echo.GET("/ws/feed", s.handleFeed)
}
