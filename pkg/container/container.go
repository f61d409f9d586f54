package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/config"
	infraCache "confession-backend/internal/infrastructure/cache"
	"confession-backend/internal/infrastructure/database"
	"confession-backend/internal/infrastructure/email"
	"confession-backend/internal/infrastructure/queue"
	"confession-backend/internal/infrastructure/realtime"
	"confession-backend/internal/observability/metrics"
	"confession-backend/pkg/cache"
	"confession-backend/pkg/jwt"

	// Account domain
	"confession-backend/internal/domains/account"
	accountHandler "confession-backend/internal/domains/account/handler"
	accountRepo "confession-backend/internal/domains/account/repository"
	accountService "confession-backend/internal/domains/account/service"

	// Profile domain
	"confession-backend/internal/domains/profile"
	profileHandler "confession-backend/internal/domains/profile/handler"
	profileRepo "confession-backend/internal/domains/profile/repository"
	profileService "confession-backend/internal/domains/profile/service"

	// Confirmation domain
	"confession-backend/internal/domains/confirmation"
	confirmHandler "confession-backend/internal/domains/confirmation/handler"
	confirmService "confession-backend/internal/domains/confirmation/service"

	// Confession + read state
	"confession-backend/internal/domains/confession"
	confessionHandler "confession-backend/internal/domains/confession/handler"
	confessionRepo "confession-backend/internal/domains/confession/repository"
	confessionService "confession-backend/internal/domains/confession/service"
	"confession-backend/internal/domains/readstate"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container là root của dependency graph, dùng chung cho cmd/api và cmd/worker
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *redis.Client
	Cache       cache.Cache
	Feed        *realtime.RedisFeed
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager
	Email       email.EmailService

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AccountRepo    account.Repository
	TokenStore     account.TokenStore
	SessionStore   account.SessionStore
	ProfileRepo    profile.Repository
	ConfessionRepo confession.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	AccountService      account.Service
	ProfileService      profile.Service
	ConfirmService      confirmation.Service
	ConfessionService   confession.Service
	DrainScheduler      *readstate.AsynqDrainScheduler
	ReadStateReconciler *readstate.Reconciler

	// ========================================
	// HANDLER LAYER
	// ========================================
	AccountHandler    *accountHandler.AccountHandler
	ProfileHandler    *profileHandler.ProfileHandler
	ConfirmHandler    *confirmHandler.ConfirmHandler
	ConfessionHandler *confessionHandler.ConfessionHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer khởi tạo theo thứ tự:
// Config → Infrastructure → Repositories → Services → Handlers
func NewContainer(serviceName string) (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("✅ Config loaded")

	metrics.MustRegister(serviceName)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	if err := c.initDatabase(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE REDIS / QUEUE
	// ========================================
	if err := c.initRedis(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.AsynqClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	c.Email = email.NewDevEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)

	// ========================================
	// STEP 4-6: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.initRepositories()
	log.Info().Msg("✅ Repositories initialized")

	c.initServices()
	log.Info().Msg("✅ Services initialized")

	c.initHandlers()
	log.Info().Msg("✅ Handlers initialized")

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase() error {
	log.Info().Msg("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if c.Config.App.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Info().Msg("✅ Database connected")
	return nil
}

func (c *Container) initRedis() error {
	log.Info().Msg("🔴 Connecting to Redis...")

	c.Redis = infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	redisCache := infraCache.NewRedisCache(c.Redis)

	// Token store, session store và feed đều cần redis nên lỗi ở đây là fatal
	if err := redisCache.Connect(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.Cache = redisCache
	c.Feed = realtime.NewRedisFeed(c.Redis)

	log.Info().Msg("✅ Redis connected")
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AccountRepo = accountRepo.NewPostgresRepository(pool)
	c.TokenStore = accountRepo.NewRedisTokenStore(c.Redis)
	c.SessionStore = accountRepo.NewRedisSessionStore(c.Redis)
	c.ProfileRepo = profileRepo.NewPostgresRepository(pool)
	c.ConfessionRepo = confessionRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	// ----------------------------------------
	// ACCOUNT SERVICE (identity provider)
	// ----------------------------------------
	c.AccountService = accountService.NewAccountService(
		c.AccountRepo,
		c.TokenStore,
		c.SessionStore,
		c.JWTManager,
		c.AsynqClient,
		accountService.Config{
			LinkTTL:      cfg.Auth.LinkTTL,
			SiteURL:      cfg.Site.URL,
			CookieName:   cfg.Auth.CookieName,
			CookieDomain: cfg.Auth.CookieDomain,
			CookieSecure: cfg.Auth.CookieSecure,
		},
	)

	// ----------------------------------------
	// PROFILE SERVICE
	// ----------------------------------------
	c.ProfileService = profileService.NewProfileService(
		c.ProfileRepo,
		c.Cache,
		cfg.Site.URL+cfg.Site.ConfessPath,
	)

	// ----------------------------------------
	// CONFIRMATION
	// ----------------------------------------
	c.ConfirmService = confirmService.NewConfirmService(
		c.AccountService,
		c.ProfileService,
		confirmation.Destinations{
			SiteURL:   cfg.Site.URL,
			Login:     cfg.Site.LoginPath,
			Setup:     cfg.Site.SetupPath,
			Dashboard: cfg.Site.DashboardPath,
		},
	)

	// ----------------------------------------
	// CONFESSION + READ STATE
	// ----------------------------------------
	c.ConfessionService = confessionService.NewConfessionService(
		c.ConfessionRepo,
		c.ProfileService,
		c.Feed,
	)

	c.DrainScheduler = readstate.NewAsynqDrainScheduler(c.AsynqClient, cfg.App.DrainMaxRetry)
	c.ReadStateReconciler = readstate.NewReconciler(c.ConfessionRepo, c.Feed, c.DrainScheduler)
}

func (c *Container) initHandlers() {
	c.AccountHandler = accountHandler.NewAccountHandler(c.AccountService)
	c.ProfileHandler = profileHandler.NewProfileHandler(c.ProfileService)
	c.ConfirmHandler = confirmHandler.NewConfirmHandler(c.ConfirmService)
	c.ConfessionHandler = confessionHandler.NewConfessionHandler(
		c.ConfessionService,
		c.ReadStateReconciler,
		c.Config.Site.URL+c.Config.Site.ConfessPath,
	)
}

// ========================================
// HEALTH / CLEANUP
// ========================================

// HealthCheck ping database và redis
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"database": "up", "redis": "up"}

	if c.DB == nil {
		status["database"] = "down"
	} else if err := c.DB.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Database health check failed")
		status["database"] = "down"
	}

	if c.Cache == nil {
		status["redis"] = "down"
	} else if err := c.Cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis health check failed")
		status["redis"] = "down"
	}

	return status
}

// Cleanup dọn dẹp resources khi shutdown. An toàn khi container mới init một phần.
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Info().Msg("✅ Redis connections closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Info().Msg("✅ Database connections closed")
	}

	log.Info().Msg("✅ Container cleanup completed")
}
