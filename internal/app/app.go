package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/hackfest/server/cmd/server/docs" // swagger docs
	"github.com/hackfest/server/internal/module/auth"
	"github.com/hackfest/server/internal/module/contact"
	"github.com/hackfest/server/internal/module/event"
	"github.com/hackfest/server/internal/module/submission"
	"github.com/hackfest/server/internal/module/team"
	"github.com/hackfest/server/internal/module/user"
	sharedcache "github.com/hackfest/server/internal/shared/cache"
	"github.com/hackfest/server/internal/shared/config"
	"github.com/hackfest/server/internal/shared/database"
	"github.com/hackfest/server/internal/shared/logger"
	"github.com/hackfest/server/internal/shared/metrics"
	"github.com/hackfest/server/internal/shared/middleware"
)

// App represents the application.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	// Middleware
	authMiddleware *auth.Middleware

	// Handlers
	userHandler       *user.Handler
	userAdmin         *user.AdminHandler
	teamHandler       *team.Handler
	submissionHandler *submission.Handler
	submissionAdmin   *submission.AdminHandler
	contactHandler    *contact.Handler
	contactAdmin      *contact.AdminHandler
	eventHandler      *event.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("hackfest"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// Redis is optional; rate limiting and result caching degrade
	// gracefully without it.
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			zapLog.Warn("redis connection failed", zap.Error(err))
		} else {
			app.redis = redisClient
		}
	}

	app.router = app.setupRouter()

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.registerRoutes()

	return app, nil
}

// migrate applies schema migrations for all module models.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&auth.RefreshToken{},
		&team.Team{},
		&team.Invite{},
		&team.JoinRequest{},
		&submission.Submission{},
		&submission.Review{},
		&submission.Result{},
		&contact.Message{},
	)
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Metrics(a.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// initModules initializes all application modules.
func (a *App) initModules() error {
	jwtManager := auth.NewJWTManager(&auth.JWTConfig{
		Secret:             a.config.Auth.JWTSecret,
		AccessTokenExpiry:  a.config.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: a.config.Auth.RefreshTokenExpiry,
		Issuer:             "hackfest",
	})

	var rateLimiter *auth.RateLimiter
	if a.redis != nil {
		rateLimiter = auth.NewRateLimiter(a.redis)
	}

	// User module
	userRepo := user.NewRepository(a.db)
	tokenRepo := auth.NewRefreshTokenRepository(a.db)
	userService := user.NewService(
		userRepo,
		tokenRepo,
		jwtManager,
		rateLimiter,
		a.newAccountEmailSender(),
		&a.config.Event,
		a.config.Auth.LoginRPM,
		a.metrics,
		a.logger,
	)
	a.userHandler = user.NewHandler(userService)
	a.userAdmin = user.NewAdminHandler(userService)

	a.authMiddleware = auth.NewMiddleware(jwtManager, &adminChecker{repo: userRepo})

	// Submission module (built before team so the finality guard can be wired)
	submissionRepo := submission.NewRepository(a.db)
	submissionService := submission.NewService(submissionRepo, a.redis, &a.config.Event, a.metrics, a.zapLogger)
	a.submissionHandler = submission.NewHandler(submissionService)
	a.submissionAdmin = submission.NewAdminHandler(submissionService)

	// Team module
	teamRepo := team.NewRepository(a.db)
	teamService := team.NewService(
		teamRepo,
		submissionService,
		a.newInviteEmailSender(),
		&a.config.Event,
		a.metrics,
		a.zapLogger,
	)
	a.teamHandler = team.NewHandler(teamService, a.baseURL())

	// Contact module
	contactRepo := contact.NewRepository(a.db)
	contactService := contact.NewService(
		contactRepo,
		rateLimiter,
		a.newContactNotificationSender(),
		a.config.Auth.ContactRPM,
		a.zapLogger,
	)
	a.contactHandler = contact.NewHandler(contactService)
	a.contactAdmin = contact.NewAdminHandler(contactService)

	// Event info
	a.eventHandler = event.NewHandler(&a.config.Event)

	return nil
}

// registerRoutes registers routes for all modules.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")

	publicRouter := v1.Group("")

	protectedRouter := v1.Group("")
	protectedRouter.Use(a.authMiddleware.RequireAuth())

	adminRouter := v1.Group("/admin")
	adminRouter.Use(a.authMiddleware.RequireAuth(), a.authMiddleware.RequireAdmin())

	// Public routes
	a.userHandler.RegisterRoutes(publicRouter)
	a.teamHandler.RegisterRoutes(publicRouter)
	a.submissionHandler.RegisterRoutes(publicRouter)
	a.contactHandler.RegisterRoutes(publicRouter)
	a.eventHandler.RegisterRoutes(publicRouter)

	// Protected routes
	a.userHandler.RegisterProtectedRoutes(protectedRouter)
	a.teamHandler.RegisterProtectedRoutes(protectedRouter)
	a.submissionHandler.RegisterProtectedRoutes(protectedRouter)

	// Admin routes
	a.userAdmin.RegisterRoutes(adminRouter)
	a.teamHandler.RegisterAdminRoutes(adminRouter)
	a.submissionAdmin.RegisterRoutes(adminRouter)
	a.contactAdmin.RegisterRoutes(adminRouter)
}

// baseURL returns the public base URL used in outbound links.
func (a *App) baseURL() string {
	if a.config.Email.BaseURL != "" {
		return a.config.Email.BaseURL
	}
	return "http://localhost" + a.config.Server.Address
}

func (a *App) newAccountEmailSender() user.EmailSender {
	if a.config.Email.Provider != "smtp" {
		return user.NewNoOpEmailSender(a.zapLogger)
	}
	return user.NewSMTPEmailSender(&user.SMTPConfig{
		Host:        a.config.Email.SMTP.Host,
		Port:        a.config.Email.SMTP.Port,
		User:        a.config.Email.SMTP.User,
		Password:    a.config.Email.SMTP.Password,
		FromAddress: a.config.Email.FromAddress,
		FromName:    a.config.Email.FromName,
		BaseURL:     a.baseURL(),
		EventName:   a.config.Event.Name,
	}, a.zapLogger)
}

func (a *App) newInviteEmailSender() team.InviteEmailSender {
	if a.config.Email.Provider != "smtp" {
		return team.NewNoOpInviteSender(a.zapLogger)
	}
	return team.NewSMTPInviteSender(&team.SMTPConfig{
		Host:        a.config.Email.SMTP.Host,
		Port:        a.config.Email.SMTP.Port,
		User:        a.config.Email.SMTP.User,
		Password:    a.config.Email.SMTP.Password,
		FromAddress: a.config.Email.FromAddress,
		FromName:    a.config.Email.FromName,
		BaseURL:     a.baseURL(),
		EventName:   a.config.Event.Name,
	}, a.zapLogger)
}

func (a *App) newContactNotificationSender() contact.NotificationSender {
	if a.config.Email.Provider != "smtp" || a.config.Email.OrganizerTo == "" {
		return contact.NewNoOpNotificationSender(a.zapLogger)
	}
	return contact.NewSMTPNotificationSender(&contact.SMTPNotificationConfig{
		Host:        a.config.Email.SMTP.Host,
		Port:        a.config.Email.SMTP.Port,
		User:        a.config.Email.SMTP.User,
		Password:    a.config.Email.SMTP.Password,
		FromAddress: a.config.Email.FromAddress,
		FromName:    a.config.Email.FromName,
		OrganizerTo: a.config.Email.OrganizerTo,
		EventName:   a.config.Event.Name,
	}, a.zapLogger)
}

// adminChecker confirms admin status against the users table.
type adminChecker struct {
	repo user.Repository
}

func (c *adminChecker) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := c.repo.GetByID(ctx, userID)
	if err != nil {
		if err == user.ErrUserNotFound {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin && u.Status == user.UserStatusActive, nil
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.zapLogger != nil {
		_ = a.zapLogger.Sync()
	}

	if a.redis != nil {
		_ = a.redis.Close()
	}

	if a.db != nil {
		_ = database.Close(a.db)
	}
}
