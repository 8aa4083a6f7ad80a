package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/pejman93/echopulse/internal/classify"
	"github.com/pejman93/echopulse/internal/combine"
	"github.com/pejman93/echopulse/internal/domain"
	apperrors "github.com/pejman93/echopulse/internal/errors"
	"github.com/pejman93/echopulse/internal/websocket"
)

type classifyRequest struct {
	Text          string   `json:"text"`
	Score         float64  `json:"score"`
	SpeakerID     string   `json:"speaker_id"`
	ContextWindow []string `json:"context_window"`
}

func (s *Server) handleClassify(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Score < -1 || req.Score > 1 {
		return apperrors.ValidationError("score must be in [-1, 1]").WithContext("score", req.Score)
	}

	result := s.classifier.Classify(c.Request().Context(), classify.Request{
		Text:          req.Text,
		Score:         req.Score,
		SpeakerID:     req.SpeakerID,
		ContextWindow: req.ContextWindow,
	})

	s.hub.Broadcast(websocket.FeedEvent{Kind: "classification", Data: result})

	if err := c.JSON(200, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type combineRequest struct {
	Transformer *domain.SourceResult `json:"transformer"`
	LLM         *domain.SourceResult `json:"llm"`
	Strategy    string               `json:"strategy"`
}

func (s *Server) handleCombine(c echo.Context) error {
	var req combineRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := validateSource("transformer", req.Transformer); err != nil {
		return err
	}
	if err := validateSource("llm", req.LLM); err != nil {
		return err
	}

	strategy := s.defaultStrategy
	if req.Strategy != "" {
		var err error
		if strategy, err = combine.ParseStrategy(req.Strategy); err != nil {
			return err
		}
	}

	result, err := s.combiner.Combine(req.Transformer, req.LLM, strategy)
	if err != nil {
		return err
	}

	s.hub.Broadcast(websocket.FeedEvent{Kind: "combination", Data: result})

	if err := c.JSON(200, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func validateSource(name string, src *domain.SourceResult) error {
	if src == nil {
		return nil
	}
	if !src.Category.Valid() {
		return apperrors.ValidationError(name + " category is unknown").
			WithContext("category", string(src.Category))
	}
	if src.Score < -1 || src.Score > 1 {
		return apperrors.ValidationError(name + " score must be in [-1, 1]").
			WithContext("score", src.Score)
	}
	if src.Confidence < 0 || src.Confidence > 1 {
		return apperrors.ValidationError(name + " confidence must be in [0, 1]").
			WithContext("confidence", src.Confidence)
	}
	return nil
}

type feedbackRequest struct {
	SpeakerID string  `json:"speaker_id"`
	Category  string  `json:"category"`
	Accuracy  float64 `json:"accuracy"`
}

func (s *Server) handleFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Accuracy < 0 || req.Accuracy > 1 {
		return apperrors.ValidationError("accuracy must be in [0, 1]").WithContext("accuracy", req.Accuracy)
	}

	category := domain.EmotionCategory(req.Category)
	factor, err := s.classifier.UpdateSpeakerProfile(c.Request().Context(), req.SpeakerID, category, req.Accuracy)
	if err != nil {
		return err
	}

	speakerID := req.SpeakerID
	if speakerID == "" {
		speakerID = classify.UnknownSpeaker
	}

	if err := c.JSON(200, map[string]any{
		"speaker_id":         speakerID,
		"category":           category,
		"calibration_factor": factor,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSpeakerArc(c echo.Context) error {
	speakerID := c.Param("id")

	arc, err := s.speakers.RecentArc(c.Request().Context(), speakerID)
	if err != nil {
		return apperrors.InternalError("failed to read speaker arc", err).
			WithContext("speaker_id", speakerID)
	}
	if len(arc) == 0 {
		return apperrors.NotFoundError("no arc recorded for speaker").
			WithContext("speaker_id", speakerID)
	}

	if err := c.JSON(200, map[string]any{
		"speaker_id": speakerID,
		"arc":        arc,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
