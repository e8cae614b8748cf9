package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/webvision/quoting-api/internal/config"
	"github.com/webvision/quoting-api/internal/docuseal"
	"github.com/webvision/quoting-api/internal/domain"
	apperrors "github.com/webvision/quoting-api/pkg/errors"
)

type signingService struct {
	client *docuseal.Client
	logger *zap.Logger
}

// NewSigningService creates a new signing session service
func NewSigningService(cfg config.DocuSealConfig, logger *zap.Logger) *signingService {
	return &signingService{
		client: docuseal.NewClient(cfg, logger),
		logger: logger,
	}
}

// InitSession creates one embedded signing session for the request's template
// and submitter. send_email stays false because the session is embedded
// directly in-page instead of being delivered by the provider's email flow.
func (s *signingService) InitSession(ctx context.Context, req domain.SigningSessionRequest) (*domain.SigningSession, error) {
	submission := docuseal.SubmissionRequest{
		TemplateID: req.TemplateID,
		SendEmail:  false,
		Submitters: []docuseal.Submitter{
			{
				Email: req.SubmitterEmail,
				Name:  req.SubmitterName,
				Role:  "Signer",
			},
		},
	}

	records, err := s.client.CreateSubmission(ctx, submission)
	if err != nil {
		return nil, err
	}

	// One submitter is requested, so the intended party is always record [0].
	// The provider promises a non-empty ordered list on success; check anyway
	// rather than trust it.
	if len(records) == 0 {
		return nil, &apperrors.UpstreamError{
			Message: apperrors.ErrNoSubmitters.Error(),
			Err:     apperrors.ErrNoSubmitters,
		}
	}

	s.logger.Info("signing session created",
		zap.String("template_id", req.TemplateID),
		zap.String("slug", records[0].Slug),
	)

	return &domain.SigningSession{
		Slug:         records[0].Slug,
		SubmissionID: records[0].ID,
	}, nil
}
