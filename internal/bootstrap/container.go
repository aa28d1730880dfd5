package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"field-survey-bot/internal/config"
	"field-survey-bot/internal/controller"
	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/pkg/mailer"
	"field-survey-bot/internal/pkg/metrics"
	"field-survey-bot/internal/pkg/telegram"
	"field-survey-bot/internal/repository/contract"
	"field-survey-bot/internal/repository/implementation"
	"field-survey-bot/internal/repository/memory"
	"field-survey-bot/internal/service"
	"field-survey-bot/pkg/survey"

	pktNats "field-survey-bot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	TelegramController controller.ITelegramController
	ReportController   controller.IReportController // nil without a database

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	SurveyService service.ISurveyService
	Sessions      contract.SurveySessionRepository
	Logger        logger.ILogger

	closers []func()
}

// NewContainer wires the bot. db may be nil, which disables the report
// archive and its endpoints.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	reportLogger := logger.NewIsolatedLogger(cfg.App.ReportLogFilePath)
	c := &Container{Logger: sysLogger}

	// 1. Messaging API
	bot := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.Telegram.RequestTimeout)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	updates := newUpdateRepository(cfg, c)

	sessions := memory.NewSessionRepository(cfg.Survey.SessionIdleTTL)
	sessions.OnEvicted(func(chatID int64) {
		metrics.SetActiveSessions(sessions.Count())
		sysLogger.Debug("SessionStore", "Session removed", map[string]interface{}{"chat_id": chatID})
	})
	c.Sessions = sessions

	var reports contract.SurveyReportRepository
	if db != nil {
		reports = implementation.NewSurveyReportRepository(db)
	}

	// 4. Services
	engine := survey.NewEngine(
		survey.WithCompanies(cfg.Survey.CompanyList()...),
		survey.WithResetCommand(cfg.Survey.ResetCommand),
	)

	reportMailer := mailer.NewReportMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		fmt.Sprintf("%s <%s>", cfg.SMTP.SenderName, cfg.SMTP.Email),
		cfg.Report.Recipients,
	)

	dispatcherService := service.NewDispatcherService(bot, sysLogger)
	publisherService := service.NewPublisherService(pubSub, cfg.Report.Topic)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Report.Topic,
		bot,
		reportMailer,
		reports,
		eventPublisher,
		reportLogger,
	)
	c.SurveyService = service.NewSurveyService(engine, sessions, dispatcherService, publisherService, eventPublisher, sysLogger)
	telegramService := service.NewTelegramService(bot, updates, c.SurveyService, sysLogger)

	// 5. Controllers
	c.TelegramController = controller.NewTelegramController(telegramService, cfg.Telegram.WebhookSecret, sysLogger)
	if reports != nil {
		c.ReportController = controller.NewReportController(service.NewReportService(reports))
	}

	return c
}

// newUpdateRepository prefers Redis so dedup survives restarts and spans
// instances; otherwise update ids are remembered in process.
func newUpdateRepository(cfg *config.Config, c *Container) contract.UpdateRepository {
	if cfg.App.RedisURL == "" {
		return memory.NewUpdateRepository(cfg.Survey.UpdateDedupTTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory update dedup", err)
		_ = rdb.Close()
		return memory.NewUpdateRepository(cfg.Survey.UpdateDedupTTL)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return implementation.NewRedisUpdateRepository(rdb, cfg.Survey.UpdateDedupTTL)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
