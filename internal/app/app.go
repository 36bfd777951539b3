package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"finbook-back/internal/api/http/handler"
	"finbook-back/internal/api/http/route"
	"finbook-back/internal/apperrors"
	"finbook-back/internal/config"
	"finbook-back/internal/model"
	"finbook-back/internal/msg/consumer"
	"finbook-back/internal/msg/outbox"
	"finbook-back/internal/repository"
	"finbook-back/internal/service"
	"finbook-back/pkg/postgres"
	"finbook-back/pkg/rabbitmq"
	"finbook-back/pkg/redis"
	"finbook-back/pkg/server"
)

const defaultTimeout = 15 * time.Second

type HealthRepository interface {
	IsOK() (bool, error)
	PingDB(ctx context.Context) error
}

type HealthService interface {
	IsOK() (bool, error)
	CheckDB(ctx context.Context) error
}

type HealthHandler interface {
	Ping(c *gin.Context)
	Health(c *gin.Context)
}

type MessageRepository interface {
	Insert(ctx context.Context, ext repository.RepoExtension, action model.Action, queueName string, requestBody []byte) (int64, error)
	MarkSucceeded(ctx context.Context, ext repository.RepoExtension, id int64, responseBody []byte) error
	MarkFailed(ctx context.Context, ext repository.RepoExtension, id int64, errorMessage string) error
	IncrementAttempts(ctx context.Context, ext repository.RepoExtension, id int64) (int, error)
	SelectByID(ctx context.Context, ext repository.RepoExtension, id int64) (*model.MessageRecord, error)
}

type OutboxRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, message model.OutboxMessage) error
	UpdateAsSent(ctx context.Context, ext repository.RepoExtension, messageID uuid.UUID) error
	SelectUnsentBatch(ctx context.Context, ext repository.RepoExtension, batchSize int) ([]model.OutboxMessage, error)
}

type ResultCacheRepository interface {
	Get(ctx context.Context, id int64) ([]byte, error)
	Set(ctx context.Context, id int64, value []byte, ttl time.Duration) error
}

type CategoryRepository interface {
	Insert(ctx context.Context, ext repository.RepoExtension, category *model.Category) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Category, error)
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Category, error)
	Update(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, name string) error
	Delete(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type AccountRepository interface {
	Insert(ctx context.Context, ext repository.RepoExtension, account *model.Account) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Account, error)
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Account, error)
	Update(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, name string) error
	Delete(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type TransactionRepository interface {
	Insert(ctx context.Context, ext repository.RepoExtension, trx *model.Transaction) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Transaction, error)
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Transaction, error)
	Update(ctx context.Context, ext repository.RepoExtension, upd *model.TransactionUpdate) error
	Delete(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type DispatchService interface {
	SendCommand(ctx context.Context, resource model.Resource, action model.Action, payload json.RawMessage) (*model.CommandReceipt, error)
	QueueName(resource model.Resource) string
}

type ResultService interface {
	GetResult(ctx context.Context, id int64) (*model.CommandResult, error)
}

type CommandHandler interface {
	Dispatch(c *gin.Context)
	GetResult(c *gin.Context)
}

type Publisher interface {
	Run(ctx context.Context)
}

type CommandConsumer interface {
	Run(ctx context.Context)
	Shutdown() error
}

type App struct {
	Cfg        *config.Config
	Log        *zap.Logger
	Handler    *Handler
	Service    *Service
	DB         postgres.Postgres
	RDB        redis.Redis
	Rabbit     *rabbitmq.Client
	HTTPServer server.HTTPServer
	EBus       *EBus
}

type Repository struct {
	HealthRepository      HealthRepository
	MessageRepository     MessageRepository
	OutboxRepository      OutboxRepository
	ResultCacheRepository ResultCacheRepository
	CategoryRepository    CategoryRepository
	AccountRepository     AccountRepository
	TransactionRepository TransactionRepository
	TxManager             repository.Transactor
}

type Service struct {
	HealthService      HealthService
	DispatchService    DispatchService
	ResultService      ResultService
	CategoryService    *service.CategoryService
	AccountService     *service.AccountService
	TransactionService *service.TransactionService
}

type Handler struct {
	HealthHandler  HealthHandler
	CommandHandler CommandHandler
}

// EBus holds the moving parts of the command bus: the outbox relay that
// publishes registered commands and one consumer per command queue.
type EBus struct {
	OutboxPublisher Publisher
	Producer        rabbitmq.Producer
	Consumers       []CommandConsumer
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := initDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := initRedis(log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize redis", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	rabbit, err := initRabbit(log, &cfg.Rabbit)
	if err != nil {
		log.Error("Failed to initialize rabbitmq", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize rabbitmq: %w", err)
	}

	repo := initRepository(log, db, rdb)

	if err := repo.HealthRepository.PingDB(ctx); err != nil {
		log.Error("Failed to ping database", zap.Error(err))
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	svc := initService(log, cfg, repo)

	hdl := initHandler(log, &cfg.Dispatch, svc)

	httpServer := initHTTPServer(log, cfg, hdl)

	eBus, err := initEBus(log, &cfg.Rabbit, rabbit, repo, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ebus: %w", err)
	}

	return &App{
		Cfg:        cfg,
		Log:        log,
		Handler:    hdl,
		Service:    svc,
		DB:         db,
		RDB:        rdb,
		Rabbit:     rabbit,
		HTTPServer: httpServer,
		EBus:       eBus,
	}, nil
}

func MustNew(cfg *config.Config, log *zap.Logger) *App {
	app, err := New(cfg, log)
	if err != nil {
		panic(err)
	}
	return app
}

func (a *App) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	defer close(errs)

	go func() {
		if err := a.HTTPServer.Run(); err != nil {
			errs <- err
		}
	}()

	go func() {
		a.EBus.OutboxPublisher.Run(ctx)
	}()

	for _, c := range a.EBus.Consumers {
		go func(c CommandConsumer) {
			c.Run(ctx)
		}(c)
	}

	if err := <-errs; err != nil {
		return err
	}

	return nil
}

func (a *App) Shutdown() error {
	err := apperrors.ErrShutdown

	if srvErr := a.HTTPServer.Shutdown(); srvErr != nil {
		err = fmt.Errorf("%w, failed to shutdown http server: %w", err, srvErr)
	}

	a.Log.Debug("Http server shutdown")

	if prodErr := a.EBus.Producer.Close(); prodErr != nil {
		err = fmt.Errorf("%w, failed to close producer: %w", err, prodErr)
	}

	// Consumers cancel their subscriptions before the connection goes away,
	// so in-flight deliveries get rejected back to the broker cleanly.
	for _, c := range a.EBus.Consumers {
		if conErr := c.Shutdown(); conErr != nil {
			err = fmt.Errorf("%w, failed to shutdown consumer: %w", err, conErr)
		}
	}

	if mqErr := a.Rabbit.Close(); mqErr != nil {
		err = fmt.Errorf("%w, failed to close rabbitmq: %w", err, mqErr)
	}

	a.Log.Debug("RabbitMQ closed")

	if a.RDB != nil {
		if rdbErr := a.RDB.Close(); rdbErr != nil {
			err = fmt.Errorf("%w, failed to close RDB: %w", err, rdbErr)
		}

		a.Log.Debug("Redis closed")
	}

	a.DB.Close()
	a.Log.Debug("Database closed")

	if !errors.Is(err, apperrors.ErrShutdown) {
		return err
	}

	return nil
}

func initDB(cfg *config.Database) (postgres.Postgres, error) {
	postgresCfg := &postgres.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Name,
		SSLMode:  cfg.SSLMode,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
		Migration: postgres.Migration{
			Path:      cfg.Migration.Path,
			AutoApply: cfg.Migration.AutoApply,
		},
	}

	db, err := postgres.New(postgresCfg)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func initRedis(log *zap.Logger, cfg *config.Redis) (redis.Redis, error) {
	if !cfg.Enable {
		log.Debug("Redis disabled, result cache is off")
		return nil, nil
	}

	redisCfg := &redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	rdb, err := redis.New(redisCfg)
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func initRabbit(log *zap.Logger, cfg *config.Rabbit) (*rabbitmq.Client, error) {
	client, err := rabbitmq.NewClient(&rabbitmq.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		VHost:    cfg.VHost,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("RabbitMQ client initialized")

	return client, nil
}

func initRepository(log *zap.Logger, db postgres.Postgres, rdb redis.Redis) *Repository {
	healthRepo := repository.NewHealthRepository(db.Pool())
	log.Debug("Health repository initialized")

	messageRepo := repository.NewMessageRepository(db.Pool())
	log.Debug("Message repository initialized")

	outboxRepo := repository.NewOutboxRepository(db.Pool())
	log.Debug("Outbox repository initialized")

	var cacheRepo ResultCacheRepository
	if rdb != nil {
		cacheRepo = repository.NewResultCacheRepository(rdb.Client())
		log.Debug("Result cache repository initialized")
	}

	categoryRepo := repository.NewCategoryRepository(db.Pool())
	log.Debug("Category repository initialized")

	accountRepo := repository.NewAccountRepository(db.Pool())
	log.Debug("Account repository initialized")

	trxRepo := repository.NewTransactionRepository(db.Pool())
	log.Debug("Transaction repository initialized")

	txManager := repository.NewTxManager(db.Pool())

	return &Repository{
		HealthRepository:      healthRepo,
		MessageRepository:     messageRepo,
		OutboxRepository:      outboxRepo,
		ResultCacheRepository: cacheRepo,
		CategoryRepository:    categoryRepo,
		AccountRepository:     accountRepo,
		TransactionRepository: trxRepo,
		TxManager:             txManager,
	}
}

func initService(log *zap.Logger, cfg *config.Config, repo *Repository) *Service {
	healthSvc := service.NewHealthService(log, repo.HealthRepository)
	log.Debug("Health service initialized")

	dispatchSvc := service.NewDispatchService(log, repo.TxManager, repo.MessageRepository, repo.OutboxRepository, cfg.Dispatch.QueuePrefix)
	log.Debug("Dispatch service initialized")

	var cache service.ResultCache
	if repo.ResultCacheRepository != nil {
		cache = repo.ResultCacheRepository
	}

	resultSvc := service.NewResultService(log, repo.MessageRepository, cache, cfg.Dispatch.ResultCacheTTL)
	log.Debug("Result service initialized")

	categorySvc := service.NewCategoryService(log, repo.CategoryRepository)
	log.Debug("Category service initialized")

	accountSvc := service.NewAccountService(log, repo.AccountRepository)
	log.Debug("Account service initialized")

	trxSvc := service.NewTransactionService(log, repo.TransactionRepository)
	log.Debug("Transaction service initialized")

	return &Service{
		HealthService:      healthSvc,
		DispatchService:    dispatchSvc,
		ResultService:      resultSvc,
		CategoryService:    categorySvc,
		AccountService:     accountSvc,
		TransactionService: trxSvc,
	}
}

func initHandler(log *zap.Logger, dispatchCfg *config.Dispatch, svc *Service) *Handler {
	healthHandler := handler.NewHealthHandler(log, svc.HealthService)
	log.Debug("Health handler initialized")

	commandHandler := handler.NewCommandHandler(log, svc.DispatchService, svc.ResultService, dispatchCfg.PollRetryAfter)
	log.Debug("Command handler initialized")

	return &Handler{
		HealthHandler:  healthHandler,
		CommandHandler: commandHandler,
	}
}

func initHTTPServer(log *zap.Logger, cfg *config.Config, hdl *Handler) server.HTTPServer {
	router := route.SetupRouter(
		log,
		cfg,
		hdl.HealthHandler,
		hdl.CommandHandler,
	)

	httpServer := server.NewHTTPServer(
		server.WithAddr(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		server.WithTimeout(cfg.HTTPServer.Timeout.Read, cfg.HTTPServer.Timeout.Write, cfg.HTTPServer.Timeout.Idle),
		server.WithHandler(router),
	)

	return httpServer
}

func initEBus(log *zap.Logger, cfg *config.Rabbit, client *rabbitmq.Client, repo *Repository, svc *Service) (*EBus, error) {
	producer, err := rabbitmq.NewProducer(client)
	if err != nil {
		return nil, fmt.Errorf("failed to init rabbitmq producer: %w", err)
	}

	log.Debug("RabbitMQ producer initialized")

	relayCfg := outbox.Config{
		Name:         cfg.Relay.Name,
		WorkerCount:  cfg.Relay.WorkerCount,
		PollInterval: cfg.Relay.PollInterval,
		BatchSize:    cfg.Relay.BatchSize,
	}

	publisher := outbox.NewPublisher(
		log,
		relayCfg,
		producer,
		repo.OutboxRepository,
	)

	log.Debug("Outbox publisher initialized")

	handlersByResource := map[model.Resource]consumer.Handlers{
		model.ResourceCategory:    consumer.CategoryHandlers(svc.CategoryService),
		model.ResourceAccount:     consumer.AccountHandlers(svc.AccountService),
		model.ResourceTransaction: consumer.TransactionHandlers(svc.TransactionService),
	}

	consumers := make([]CommandConsumer, 0, len(handlersByResource))

	for _, resource := range model.Resources() {
		queue := svc.DispatchService.QueueName(resource)
		tag := fmt.Sprintf("%s.%s", cfg.Consumer.Name, resource)

		queueConsumer, err := rabbitmq.NewConsumer(client, queue, tag, cfg.Consumer.Prefetch, cfg.Consumer.BufferSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create consumer for %q: %w", queue, err)
		}

		consumerCfg := consumer.Config{
			Name:        tag,
			Queue:       queue,
			WorkerCount: cfg.Consumer.WorkerCount,
			MaxAttempts: cfg.Consumer.MaxAttempts,
		}

		consumers = append(consumers, consumer.New(log, consumerCfg, queueConsumer, repo.MessageRepository, handlersByResource[resource]))

		log.Debug("Command consumer initialized", zap.String("queue", queue))
	}

	return &EBus{
		OutboxPublisher: publisher,
		Producer:        producer,
		Consumers:       consumers,
	}, nil
}
