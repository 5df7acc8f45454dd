// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gymease-service/internal/config"
	"gymease-service/internal/db"
	authHandler "gymease-service/internal/handlers/auth"
	healthHandler "gymease-service/internal/handlers/health"
	memberHandler "gymease-service/internal/handlers/member"
	productHandler "gymease-service/internal/handlers/product"
	promoHandler "gymease-service/internal/handlers/promo"
	scheduleHandler "gymease-service/internal/handlers/schedule"
	trainerHandler "gymease-service/internal/handlers/trainer"
	transactionHandler "gymease-service/internal/handlers/transaction"
	wsHandler "gymease-service/internal/handlers/websocket"
	"gymease-service/internal/integrations/qrpay"
	"gymease-service/internal/integrations/telegram"
	"gymease-service/internal/integrations/whatsapp"
	"gymease-service/internal/middleware"
	"gymease-service/internal/pkg/clock"
	"gymease-service/internal/pkg/jwt"
	"gymease-service/internal/pkg/session"
	"gymease-service/internal/repository/postgres"
	authUsecase "gymease-service/internal/service/auth"
	memberUsecase "gymease-service/internal/service/member"
	notifyUsecase "gymease-service/internal/service/notification"
	productUsecase "gymease-service/internal/service/product"
	promoUsecase "gymease-service/internal/service/promo"
	scheduleUsecase "gymease-service/internal/service/schedule"
	trainerUsecase "gymease-service/internal/service/trainer"
	transactionUsecase "gymease-service/internal/service/transaction"
	"gymease-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer(cfg *config.AppConfig, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Start wires every component and serves HTTP until ctx is cancelled, then
// drains in-flight requests and background notifications.
func (s *Server) Start(ctx context.Context) error {
	loc, err := s.cfg.Location()
	if err != nil {
		return err
	}
	now := clock.In(loc)

	if err := registerValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()
	s.logger.Info("connected to PostgreSQL")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
		Addresses: []string{s.cfg.RedisAddr},
		Password:  s.cfg.RedisPass,
		PoolSize:  10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	s.logger.Info("connected to Redis")

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiters -----
	sessionManager := session.NewManager(redisClient, s.logger)
	loginLimiter := session.NewRateLimiter(redisClient)
	publicLimiter := middleware.NewIPRateLimiter(s.cfg.PublicRPS, s.cfg.PublicBurst)

	// ----- Integrations -----
	httpClient := &http.Client{Timeout: 15 * time.Second}
	qrClient := qrpay.NewClient(qrpay.Config{BaseURL: s.cfg.QRGatewayURL, APIKey: s.cfg.QRGatewayKey}, httpClient, s.logger)
	waClient := whatsapp.NewClient(whatsapp.Config{BaseURL: s.cfg.WhatsAppURL, Token: s.cfg.WhatsAppToken}, httpClient)

	var tgSender telegram.Sender
	if s.cfg.TelegramBotToken != "" {
		b, err := telegram.NewBot(s.cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("failed to create Telegram bot: %w", err)
		}
		tgSender = b
	}
	staffLog := telegram.NewLogger(tgSender, s.cfg.LogTelegramChatID, s.logger)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	authRepo := postgres.NewAuthRepository(pool, dbWrapper)
	memberRepo := postgres.NewMemberRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	promoRepo := postgres.NewPromoRepository(pool)
	trainerRepo := postgres.NewTrainerRepository(pool)
	scheduleRepo := postgres.NewScheduleRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool, dbWrapper)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(s.logger)
	go hub.Run(ctx)

	// ----- Services (Usecases) -----
	notifService := notifyUsecase.NewNotificationService(hub, staffLog, waClient, s.logger)
	defer notifService.Wait()

	authService := authUsecase.NewAuthService(authRepo, jwtManager, sessionManager, loginLimiter, notifService, now, s.logger)
	memberService := memberUsecase.NewMemberService(memberRepo, now, s.logger)
	productService := productUsecase.NewProductService(productRepo, s.logger)
	promoService := promoUsecase.NewPromoService(promoRepo, productRepo, now, s.logger)
	trainerService := trainerUsecase.NewTrainerService(trainerRepo, s.logger)
	scheduleService := scheduleUsecase.NewScheduleService(scheduleRepo, trainerRepo, now, s.logger)
	transactionService := transactionUsecase.NewTransactionService(
		transactionRepo,
		productRepo,
		memberRepo,
		trainerRepo,
		promoService,
		qrClient,
		notifService,
		now,
		s.cfg.QRTTL,
		s.logger,
	)

	go transactionService.RunExpiryWorker(ctx, s.cfg.ExpiryInterval)

	// ----- Initial Staff Account -----
	if err := s.initializeAdmin(ctx, authService); err != nil {
		s.logger.Error("failed to initialize admin account", zap.Error(err))
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)

	// ----- Router -----
	SetupRouter(s.engine, &Handlers{
		AuthHandler:        authHandler.NewAuthHandler(authService, s.logger),
		MemberHandler:      memberHandler.NewMemberHandler(memberService),
		ProductHandler:     productHandler.NewProductHandler(productService),
		PromoHandler:       promoHandler.NewPromoHandler(promoService),
		TrainerHandler:     trainerHandler.NewTrainerHandler(trainerService),
		ScheduleHandler:    scheduleHandler.NewScheduleHandler(scheduleService, memberService),
		TransactionHandler: transactionHandler.NewTransactionHandler(transactionService, s.cfg.QRCallbackSecret, s.logger),
		WSHandler:          wsHandler.NewWebSocketHandler(hub, transactionService, s.cfg.CORSOrigins, s.logger),
		HealthHandler: healthHandler.NewHealthHandler(map[string]healthHandler.Check{
			"postgres": dbWrapper.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
		PublicLimiter:  publicLimiter,
	})

	// ----- Start HTTP -----
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initializeAdmin creates the first staff account when ADMIN_PASSWORD is set.
func (s *Server) initializeAdmin(ctx context.Context, authService *authUsecase.AuthService) error {
	if s.cfg.AdminPassword == "" {
		s.logger.Warn("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := authService.EnsureAdmin(ctx, s.cfg.AdminUsername, s.cfg.AdminEmail, s.cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to ensure admin exists: %w", err)
	}
	return nil
}
