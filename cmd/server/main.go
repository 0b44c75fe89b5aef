package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yelocar/internal/config"
	handlers "yelocar/internal/handlers/shared"
	"yelocar/internal/middleware"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/repositories/mongodb"
	"yelocar/internal/repositories/rtdb"
	"yelocar/internal/services"
	"yelocar/internal/utils"
	"yelocar/pkg/cache"
	"yelocar/pkg/database"
	"yelocar/pkg/firebase"
	"yelocar/pkg/logger"
	"yelocar/pkg/maps"
	"yelocar/pkg/push"
	"yelocar/pkg/sms"
	"yelocar/pkg/storage"
	"yelocar/pkg/websocket"
	"yelocar/routes"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		Colors:     config.IsDevelopment(),
		AppName:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) error {
	// Realtime database and identity
	var (
		tree     rtdb.Tree
		identity services.IdentityProvider
		pusher   push.PushProvider = push.NoopProvider{}
	)
	if cfg.Firebase.Enabled() {
		app, err := firebase.NewApp(ctx, &firebase.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			DatabaseURL:     cfg.Firebase.DatabaseURL,
			CredentialsFile: cfg.Firebase.CredentialsFile,
			CredentialsJSON: cfg.Firebase.CredentialsJSON,
		})
		if err != nil {
			return err
		}
		tree = rtdb.NewFirebaseTree(app.Database)
		identity = firebase.NewIdentityClient(app.Auth)

		if cfg.Push.Enabled {
			fcm, err := push.NewFCMProvider(ctx, app.Underlying())
			if err != nil {
				return err
			}
			pusher = fcm
		}
	} else {
		appLogger.Warn("FIREBASE_DATABASE_URL not set, using in-memory tree")
		tree = rtdb.NewMemoryTree()
	}

	// Cache
	var store cache.Store = cache.NewMemoryCache()
	if cfg.Redis.Enabled() {
		redisCache, err := cache.NewRedisCache(ctx, &cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return err
		}
		store = redisCache
	}
	defer store.Close()
	cacheService := services.NewCacheService(store, appLogger, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL)

	// Audit trail
	var (
		auditRepo interfaces.AuditLogRepository
		mongoDB   *database.MongoDB
	)
	if cfg.Database.Enabled() {
		db, err := database.NewMongoDB(ctx, &database.DatabaseConfig{
			URI:            cfg.Database.URI,
			Database:       cfg.Database.Database,
			MaxPoolSize:    cfg.Database.MaxPoolSize,
			MinPoolSize:    cfg.Database.MinPoolSize,
			ConnectTimeout: cfg.Database.ConnectTimeout,
			SocketTimeout:  cfg.Database.SocketTimeout,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Database.RunMigrations {
			if err := database.NewMigrator(db.Database, appLogger).Up(ctx); err != nil {
				return err
			}
		}
		mongoDB = db
		auditRepo = mongodb.NewAuditLogRepository(db.Database)
	}

	fileStorage, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	smsProvider, err := newSMSProvider(ctx, cfg.SMS, appLogger)
	if err != nil {
		return err
	}
	var geocoder maps.MapsProvider = maps.NoopProvider{}
	if cfg.Maps.Enabled() {
		geocoder, err = maps.NewGoogleMapsProvider(cfg.Maps.GoogleMaps.APIKey, cfg.Maps.GoogleMaps.Region)
		if err != nil {
			return err
		}
	}

	// Repositories
	userRepo := rtdb.NewUserRepository(tree)
	vehicleRepo := rtdb.NewVehicleRepository(tree)
	bookingRepo := rtdb.NewBookingRepository(tree)
	interactionRepo := rtdb.NewInteractionRepository(tree)
	staffRepo := rtdb.NewStaffRepository(tree)
	showroomRepo := rtdb.NewShowroomRepository(tree)
	contactRepo := rtdb.NewContactRepository(tree)

	// Live hub. Snapshots are computed by analytics, which is built below.
	var analyticsService services.AnalyticsService
	hub := websocket.NewHub([]string{utils.TopicBookings, utils.TopicInteractions}, func(ctx context.Context, topic string) (interface{}, error) {
		return analyticsService.Snapshot(ctx, topic)
	}, appLogger)

	// Services
	auditService := services.NewAuditService(auditRepo, appLogger)
	userService := services.NewUserService(userRepo, cacheService, auditService, appLogger)
	authService := services.NewAuthService(identity, userService, bookingRepo, contactRepo, auditService,
		cfg.Security.JWTSecret, cfg.Security.SessionTokenTTL, appLogger)
	accessService := services.NewAccessService(userService, appLogger)
	catalogService := services.NewCatalogService(vehicleRepo, fileStorage, cacheService, auditService, hub, appLogger)
	notificationService := services.NewNotificationService(smsProvider, pusher, cfg.SMS.CountryCode, cfg.Push.AdminTopic, appLogger)
	bookingService := services.NewBookingService(bookingRepo, catalogService, notificationService, auditService, hub, appLogger)
	interactionService := services.NewInteractionService(interactionRepo, cacheService, hub, appLogger)
	analyticsService = services.NewAnalyticsService(catalogService, bookingService, interactionRepo, services.Counters{
		Users:     userRepo,
		Staff:     staffRepo,
		Showrooms: showroomRepo,
		Contacts:  contactRepo,
	}, cfg.App.Location(), appLogger)
	staffService := services.NewStaffService(staffRepo, auditService, appLogger)
	showroomService := services.NewShowroomService(showroomRepo, geocoder, auditService, appLogger)
	contactService := services.NewContactService(contactRepo, cacheService, appLogger)

	go hub.Run(ctx)

	optional := map[string]handlers.Pinger{"cache": cacheService}
	if mongoDB != nil {
		optional["audit"] = mongoDB
	}

	// Initialize Gin router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.MaxMultipartMemory = cfg.Security.MaxUploadSize

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(appLogger))
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RateLimitMiddleware(cacheService, cfg.Security.RateLimitPerMinute, appLogger))

	if cfg.Storage.Provider == "local" && cfg.Storage.Local.Route != "" {
		router.Static(cfg.Storage.Local.Route, cfg.Storage.Local.BasePath)
	}

	liveHandler := websocket.NewHandler(ctx, hub, cfg.WebSocket.AllowedOrigins)
	routes.SetupRoutes(router, &routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, userService),
		Users:        handlers.NewUserHandler(userService),
		Catalog:      handlers.NewCatalogHandler(catalogService, cfg.Security.MaxUploadSize),
		Bookings:     handlers.NewBookingHandler(bookingService),
		Interactions: handlers.NewInteractionHandler(interactionService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
		Staff:        handlers.NewStaffHandler(staffService),
		Showrooms:    handlers.NewShowroomHandler(showroomService),
		Contacts:     handlers.NewContactHandler(contactService),
		Audit:        handlers.NewAuditHandler(auditService),
		Access:       handlers.NewAccessHandler(accessService),
		Health:       handlers.NewHealthHandler(cfg.App.Version, tree, optional),
		Live:         liveHandler.HandleWebSocket,
		LivePath:     cfg.WebSocket.Path,
	}, &routes.Guards{
		Sessions: authService,
		Access:   accessService,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.WithField("port", cfg.App.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newStorage(ctx context.Context, cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "gcp":
		return storage.NewGCPStorage(ctx, cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
	case "aws":
		return storage.NewAWSS3Storage(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	case "local", "":
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

func newSMSProvider(ctx context.Context, cfg *config.SMSConfig, appLogger *logger.Logger) (sms.SMSProvider, error) {
	switch cfg.Provider {
	case "twilio":
		if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
			appLogger.Warn("Twilio credentials missing, booking SMS disabled")
			return sms.NoopProvider{}, nil
		}
		return sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber), nil
	case "aws":
		return sms.NewAWSSNSProvider(ctx, cfg.AWS.Region, cfg.SenderID)
	case "none", "":
		return sms.NoopProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}
