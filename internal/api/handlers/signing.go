package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webvision/quoting-api/internal/config"
	"github.com/webvision/quoting-api/internal/domain"
	"github.com/webvision/quoting-api/internal/service"
)

// InitSigningSessionRequest represents the signing session init payload
type InitSigningSessionRequest struct {
	TemplateID string `json:"templateId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// InitSigningSessionResponse represents the response
type InitSigningSessionResponse struct {
	Success      bool            `json:"success"`
	Slug         string          `json:"slug"`
	SubmissionID json.RawMessage `json:"submission_id"`
}

// HandleInitSigningSession handles POST /signing-sessions/init
func HandleInitSigningSession(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	signingService := service.NewSigningService(cfg.DocuSeal, logger)

	return func(c *gin.Context) {
		var req InitSigningSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		// Field presence checked by hand: the error body is part of the API
		// contract and binding's messages do not match it.
		if req.TemplateID == "" || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: templateId, email"})
			return
		}

		session, err := signingService.InitSession(c.Request.Context(), domain.SigningSessionRequest{
			TemplateID:     req.TemplateID,
			SubmitterEmail: req.Email,
			SubmitterName:  req.Name,
		})
		if err != nil {
			logger.Error("Failed to init signing session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, InitSigningSessionResponse{
			Success:      true,
			Slug:         session.Slug,
			SubmissionID: session.SubmissionID,
		})
	}
}
