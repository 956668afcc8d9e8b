package service

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/rs/zerolog/log"

	cfg "github.com/MboaMarket/mboa_api/internal/config"
)

// ModerationService screens listing images with AWS Rekognition before they
// are attached to a listing. When disabled in config every image passes, so
// local development does not need AWS credentials.
type ModerationService struct {
	enabled           bool
	minConfidence     float32
	rekognitionClient *rekognition.Client
}

// NewModerationService creates the image moderation service.
// Credentials are loaded from the environment by LoadDefaultConfig.
func NewModerationService(apiCfg *cfg.Config) *ModerationService {
	svc := &ModerationService{
		enabled:       apiCfg.Moderation.Enabled,
		minConfidence: apiCfg.Moderation.MinConfidence,
	}
	if !svc.enabled {
		return svc
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(apiCfg.Moderation.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load AWS SDK config")
	}
	svc.rekognitionClient = rekognition.NewFromConfig(awsCfg)
	return svc
}

// ModerationResult is the outcome of screening one image.
type ModerationResult struct {
	Approved bool     `json:"approved"`
	Labels   []string `json:"labels,omitempty"`
}

// CheckImage runs DetectModerationLabels over raw image bytes. Any label at or
// above the configured confidence rejects the image.
func (s *ModerationService) CheckImage(ctx context.Context, image []byte) (*ModerationResult, error) {
	if !s.enabled {
		return &ModerationResult{Approved: true}, nil
	}

	out, err := s.rekognitionClient.DetectModerationLabels(ctx, &rekognition.DetectModerationLabelsInput{
		Image:         &types.Image{Bytes: image},
		MinConfidence: &s.minConfidence,
	})
	if err != nil {
		log.Error().Err(err).Msg("AWS DetectModerationLabels failed")
		return nil, fmt.Errorf("moderation provider error: %w", err)
	}

	result := &ModerationResult{Approved: true}
	for _, l := range out.ModerationLabels {
		if l.Name != nil {
			result.Labels = append(result.Labels, *l.Name)
		}
	}
	if len(result.Labels) > 0 {
		result.Approved = false
		log.Warn().Strs("labels", result.Labels).Msg("image rejected by moderation")
	}
	return result, nil
}
