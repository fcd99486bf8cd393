package service

import (
	"context"
	"errors"
	"strings"

	"marketing-insights-be/internal/config"
	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/session"
	"marketing-insights-be/pkg/store"
)

const (
	noticeNoDashboards     = "Dashboards not available."
	noticeUnknownDashboard = "Select one of the listed dashboards."
)

var (
	campaignPerformanceNS = interaction.NewNamespace("CampaignPerformance")

	dashboardKey = interaction.NewKey[string](campaignPerformanceNS, "Dashboard")

	errUnknownDashboard = errors.New("dashboard is not configured")
)

type ICampaignPerformanceService interface {
	Render(ctx context.Context, sessionID string) (*dto.CampaignPerformanceView, error)
	SubmitDashboard(ctx context.Context, sessionID string, req *dto.DashboardRequest) (*dto.PageResponse[dto.CampaignPerformanceView], error)
}

type campaignPerformanceService struct {
	sessions   *session.Manager
	controller *interaction.Controller
	dashboards []config.Dashboard
	logger     logger.ILogger
}

func NewCampaignPerformanceService(
	sessions *session.Manager,
	controller *interaction.Controller,
	dashboards []config.Dashboard,
	log logger.ILogger,
) ICampaignPerformanceService {
	return &campaignPerformanceService{
		sessions:   sessions,
		controller: controller,
		dashboards: dashboards,
		logger:     log,
	}
}

func displayName(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func storedName(option string) string {
	return strings.ReplaceAll(option, " ", "_")
}

func (s *campaignPerformanceService) lookup(name string) (config.Dashboard, bool) {
	for _, d := range s.dashboards {
		if d.Name == name {
			return d, true
		}
	}
	return config.Dashboard{}, false
}

func (s *campaignPerformanceService) dashboardAction() interaction.Action[string, string] {
	return interaction.Action[string, string]{
		Name: "campaign_performance.dashboard",
		Validate: func(option string) *interaction.Notice {
			if len(s.dashboards) == 0 {
				return interaction.Info(noticeNoDashboards)
			}
			return nil
		},
		Call: func(_ context.Context, option string) (string, error) {
			d, ok := s.lookup(storedName(option))
			if !ok {
				return "", errUnknownDashboard
			}
			return d.Name, nil
		},
		Store: func(b *interaction.Batch, _ string, name string) error {
			return dashboardKey.Put(b, name)
		},
		FailureNotice: noticeUnknownDashboard,
	}
}

func (s *campaignPerformanceService) SubmitDashboard(ctx context.Context, sessionID string, req *dto.DashboardRequest) (*dto.PageResponse[dto.CampaignPerformanceView], error) {
	var resp dto.PageResponse[dto.CampaignPerformanceView]
	err := s.sessions.Run(ctx, sessionID, func(sess *store.Session) error {
		res := interaction.Submit(ctx, s.controller, sess, s.dashboardAction(), strings.TrimSpace(req.Dashboard))
		logOutcome(s.logger, "CampaignPerformance", sessionID, res)
		resp = dto.PageResponse[dto.CampaignPerformanceView]{Outcome: res.Outcome, Notice: res.Notice, View: s.render(sess)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *campaignPerformanceService) Render(ctx context.Context, sessionID string) (*dto.CampaignPerformanceView, error) {
	var view *dto.CampaignPerformanceView
	err := s.sessions.View(ctx, sessionID, func(sess *store.Session) {
		view = s.render(sess)
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// render shows the selected dashboard, or Overview when nothing valid is selected.
func (s *campaignPerformanceService) render(sess interaction.Reader) *dto.CampaignPerformanceView {
	view := &dto.CampaignPerformanceView{Dashboards: make([]string, 0, len(s.dashboards))}
	if len(s.dashboards) == 0 {
		view.Notice = interaction.Info(noticeNoDashboards)
		return view
	}
	for _, d := range s.dashboards {
		view.Dashboards = append(view.Dashboards, displayName(d.Name))
	}

	name, _ := interaction.FirstPresent(sess, dashboardKey)
	d, ok := s.lookup(name)
	if !ok {
		d, ok = s.lookup(config.DefaultDashboard)
	}
	if ok {
		view.Selected = displayName(d.Name)
		view.URL = d.URL
	}
	return view
}
