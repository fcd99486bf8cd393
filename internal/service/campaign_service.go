package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/pkg/events"

	"github.com/google/uuid"
)

type ICampaignService interface {
	Create(ctx context.Context, req *dto.CreateCampaignRequest) (*dto.CampaignResponse, error)
	GetAll(ctx context.Context) ([]*dto.CampaignResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.CampaignResponse, error)
	Names(ctx context.Context) ([]string, error)
	LinkSummaries(ctx context.Context, sessionID, name string, summaries []entity.NewsSummary) (*entity.Campaign, error)
}

type campaignService struct {
	campaignRepo     contract.CampaignRepository
	publisherService IPublisherService
	logger           logger.ILogger
	now              func() time.Time
}

func NewCampaignService(
	campaignRepo contract.CampaignRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) ICampaignService {
	return &campaignService{
		campaignRepo:     campaignRepo,
		publisherService: publisherService,
		logger:           log,
		now:              time.Now,
	}
}

func (s *campaignService) Create(ctx context.Context, req *dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	campaign := entity.Campaign{
		Id:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: s.now(),
	}
	if err := s.campaignRepo.Create(ctx, &campaign); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign", "Campaign created", map[string]interface{}{
		"campaign_id": campaign.Id.String(),
		"name":        campaign.Name,
	})
	return toCampaignResponse(&campaign), nil
}

func (s *campaignService) GetAll(ctx context.Context) ([]*dto.CampaignResponse, error) {
	campaigns, err := s.campaignRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		result = append(result, toCampaignResponse(c))
	}
	return result, nil
}

func (s *campaignService) Show(ctx context.Context, id uuid.UUID) (*dto.CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrCampaignNotFound, id)
	}
	return toCampaignResponse(campaign), nil
}

func (s *campaignService) Names(ctx context.Context) ([]string, error) {
	campaigns, err := s.campaignRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		names = append(names, c.Name)
	}
	return names, nil
}

// LinkSummaries replaces the trendspotting summaries of the named campaign.
func (s *campaignService) LinkSummaries(ctx context.Context, sessionID, name string, summaries []entity.NewsSummary) (*entity.Campaign, error) {
	campaign, err := s.campaignRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrCampaignNotFound, name)
	}

	if err := s.campaignRepo.UpdateTrendspottingSummaries(ctx, campaign.Id, summaries); err != nil {
		return nil, err
	}
	campaign.TrendspottingSummaries = summaries

	msg, err := json.Marshal(dto.CampaignSummariesLinkedMessage{
		CampaignId:   campaign.Id,
		CampaignName: campaign.Name,
		SummaryCount: len(summaries),
		SessionId:    sessionID,
		LinkedAt:     s.now(),
	})
	if err != nil {
		return nil, err
	}
	// A failed publish does not undo the registry write.
	if err := s.publisherService.Publish(ctx, events.TopicCampaignSummariesLinked, msg); err != nil {
		s.logger.Warn("Campaign", "Failed to publish summaries linked message", map[string]interface{}{
			"campaign_id": campaign.Id.String(),
			"error":       err.Error(),
		})
	}

	return campaign, nil
}

func toCampaignResponse(c *entity.Campaign) *dto.CampaignResponse {
	summaries := c.TrendspottingSummaries
	if summaries == nil {
		summaries = []entity.NewsSummary{}
	}
	return &dto.CampaignResponse{
		Id:                     c.Id,
		Name:                   c.Name,
		TrendspottingSummaries: summaries,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}
