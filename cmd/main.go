package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vendor-upload-portal/config"
	_ "vendor-upload-portal/docs"
	"vendor-upload-portal/internal/handler"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/repository"
	"vendor-upload-portal/internal/security"
	"vendor-upload-portal/internal/service"
	"vendor-upload-portal/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Vendor upload portal
// @version 1.0
// @description Портал загрузки документов поставщиками по ссылке с токеном

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if cfg.Portal.TokenPepper == "" {
		log.Fatal("Не задан portal.token_pepper")
	}

	db, err := config.SetupDatabase(ctx, &cfg.DatabaseConfig)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	requestRepo := repository.NewUploadRequestRepository(db)
	fileRepo := repository.NewUploadFileRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	accessLogRepo := repository.NewAccessLogRepository(db)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	tokenCodec := security.NewTokenCodec(cfg.Portal.TokenPepper)
	notifier := service.NewWebhookNotifier(&cfg.Notifier)
	filePolicy := service.NewFilePolicy(&cfg.UploadPolicy)

	uploadRequestService := service.NewUploadRequestService(requestRepo, fileRepo, workOrderRepo, accessLogRepo, tokenCodec, notifier, filePolicy, &cfg.Portal)
	uploadURLService := service.NewUploadURLService(requestRepo, fileRepo, accessLogRepo, tokenCodec, s3Service, filePolicy, cfg.UploadPolicy.SignedURLTTL)
	finalizeService := service.NewFinalizeService(requestRepo, fileRepo, docRepo, accessLogRepo, tokenCodec, s3Service, *cfg.UploadPolicy.VerifyOnFinalize)

	var limiter ports.AttemptLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := config.SetupRedis(&cfg.RedisConfig)
		if err != nil {
			log.Fatalf("Ошибка подключения к Redis: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("Ошибка при закрытии Redis: %v", err)
			}
		}()
		limiter = repository.NewAttemptRepository(redisClient, cfg.RateLimit.MaxFailures, cfg.RateLimit.Window)
	}

	jwtService := security.NewJWTService(&cfg.JWT)

	portalHandler := handler.NewPortalHandler(uploadRequestService, uploadURLService, finalizeService)
	uploadRequestHandler := handler.NewUploadRequestHandler(uploadRequestService)

	realIP, err := util.TrustedRealIP(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("Ошибка в списке доверенных прокси: %v", err)
	}

	router.Use(realIP)
	router.Use(middleware.Recoverer)
	router.Use(util.RequestLogger)

	router.Get("/healthz", handler.Healthz(db.DB))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupPortalRoutes(router, portalHandler, limiter)
	setupUploadRequestRoutes(router, uploadRequestHandler, jwtService)

	runServer(ctx, srv)
}

func setupPortalRoutes(r chi.Router, h *handler.PortalHandler, limiter ports.AttemptLimiter) {
	r.Route("/upload/{requestId}", func(r chi.Router) {
		if limiter != nil {
			r.Use(security.FailedTokenThrottle(limiter))
		}
		r.Get("/status", h.Status)
		r.Post("/create-upload-url", h.CreateUploadURL)
		r.Post("/finalize", h.Finalize)
		r.Post("/complete", h.Complete)
	})
}

func setupUploadRequestRoutes(r chi.Router, h *handler.UploadRequestHandler, jwtService *security.JWTService) {
	r.Group(func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))

		r.Route("/work-orders/{workOrderId}/upload-requests", func(r chi.Router) {
			r.Post("/", h.CreateUploadRequest)
			r.Get("/", h.ListUploadRequests)
		})
		r.Post("/upload-requests/{requestId}/revoke", h.RevokeUploadRequest)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
