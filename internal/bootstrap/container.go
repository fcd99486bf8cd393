package bootstrap

import (
	"context"
	"fmt"

	"marketing-insights-be/internal/config"
	"marketing-insights-be/internal/controller"
	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/internal/pkg/serverutils"
	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/internal/repository/implementation"
	"marketing-insights-be/internal/repository/memory"
	"marketing-insights-be/internal/repository/redisstore"
	"marketing-insights-be/internal/service"
	"marketing-insights-be/pkg/events"
	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/llm/factory"
	"marketing-insights-be/pkg/news"
	"marketing-insights-be/pkg/session"
	"marketing-insights-be/pkg/summarize"
	"marketing-insights-be/pkg/trends"

	pktNats "marketing-insights-be/pkg/nats"

	"cloud.google.com/go/bigquery"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

)

const logModule = "Bootstrap"

type Container struct {
	// Controllers
	TrendspottingController       controller.ITrendspottingController
	CampaignPerformanceController controller.ICampaignPerformanceController
	AudienceController            controller.IAudienceController
	CampaignController            controller.ICampaignController
	SessionController             controller.ISessionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger        logger.ILogger
	SessionCookie serverutils.SessionCookieConfig

	closers []func()
}

// NewContainer wires every dependency. db may be nil, in which case campaigns live in memory.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	pages, err := config.LoadPages(cfg.App.PagesConfigPath)
	if err != nil {
		return nil, err
	}

	// 2. Session storage
	var sessionRepo contract.SessionRepository
	switch cfg.Session.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn(logModule, "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			sysLogger.Warn(logModule, "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		sessionRepo = redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
		sysLogger.Info(logModule, "Using session backend", map[string]interface{}{"backend": "redis"})
	default:
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
		sysLogger.Info(logModule, "Using session backend", map[string]interface{}{"backend": "memory"})
	}
	sessions := session.NewManager(sessionRepo, sysLogger)
	interactions := interaction.NewController(sysLogger)

	c.SessionCookie = serverutils.SessionCookieConfig{
		Name:   cfg.Session.CookieName,
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.CookieSecure,
	}

	// 3. Campaign registry
	var campaignRepo contract.CampaignRepository
	if db != nil {
		campaignRepo = implementation.NewCampaignRepository(db)
	} else {
		campaignRepo = memory.NewCampaignRepository()
		sysLogger.Info(logModule, "No database configured, campaigns are kept in memory", nil)
	}

	// 4. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn(logModule, "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	publisherService := service.NewPublisherService(pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		events.TopicCampaignSummariesLinked,
		forwarder,
		logger.NewIsolatedLogger("logs/campaign_events.log"),
	)

	// 5. Outbound collaborators
	var trendsQuerier trends.Querier = trends.Unavailable{}
	if cfg.Trends.Project != "" {
		bq, err := bigquery.NewClient(ctx, cfg.Trends.Project)
		if err != nil {
			return nil, fmt.Errorf("create bigquery client: %w", err)
		}
		c.closers = append(c.closers, func() { _ = bq.Close() })
		trendsQuerier = trends.NewClient(trends.NewBigQueryRunner(bq), cfg.Trends.TopTermsLimit, cfg.Trends.RelatedLimit)
		sysLogger.Info(logModule, "Using trends project", map[string]interface{}{"project": cfg.Trends.Project})
	} else {
		sysLogger.Warn(logModule, "No trends project configured, trends queries will fail softly", nil)
	}

	retriever := news.NewGDELTRetriever(cfg.News.BaseURL, cfg.News.Timeout, cfg.News.MaxBodyChars)

	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:        cfg.Ai.LLMProvider,
		Model:           cfg.Ai.LLMModel,
		OllamaBaseURL:   cfg.Ai.OllamaBaseURL,
		GCPProject:      cfg.Ai.GCPProject,
		GCPLocation:     cfg.Ai.GCPLocation,
		GeminiAPIKey:    cfg.Keys.GoogleGemini,
		OpenAIAPIKey:    cfg.Keys.OpenAI,
		AnthropicAPIKey: cfg.Keys.Anthropic,
		Timeout:         cfg.Ai.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	sysLogger.Info(logModule, "Using LLM provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	summarizer := summarize.NewLLMSummarizer(llmProvider, cfg.Ai.SummaryMaxTokens, cfg.Ai.SummaryTemperature)

	// 6. Services
	campaignService := service.NewCampaignService(campaignRepo, publisherService, sysLogger)
	trendspottingService := service.NewTrendspottingService(
		sessions,
		interactions,
		trendsQuerier,
		retriever,
		summarizer,
		campaignService,
		cfg.News.WindowDays,
		sysLogger,
	)
	campaignPerformanceService := service.NewCampaignPerformanceService(
		sessions,
		interactions,
		pages.CampaignPerformance.Dashboards,
		sysLogger,
	)
	audienceService := service.NewAudienceService(
		sessions,
		interactions,
		llmProvider,
		pages.Audiences,
		cfg.Ai.TextMaxTokens,
		cfg.Ai.TextTemperature,
		sysLogger,
	)

	// 7. Controllers
	c.TrendspottingController = controller.NewTrendspottingController(trendspottingService)
	c.CampaignPerformanceController = controller.NewCampaignPerformanceController(campaignPerformanceService)
	c.AudienceController = controller.NewAudienceController(audienceService)
	c.CampaignController = controller.NewCampaignController(campaignService)
	c.SessionController = controller.NewSessionController(sessions)

	return c, nil
}

// Close releases the connections opened by NewContainer, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
