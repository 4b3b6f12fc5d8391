package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "docscan-backend/internal/auth"
	"docscan-backend/internal/billing"
	"docscan-backend/internal/entitlements"
	"docscan-backend/internal/recognize"
	"docscan-backend/internal/services/health"
	"docscan-backend/internal/shared/config"
	"docscan-backend/internal/shared/server"
	"docscan-backend/internal/shared/storage/db"
	"docscan-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	UsersRepo        users.Repo
	EntitlementsRepo entitlements.Repo

	UsersService        *users.Service
	EntitlementsService *entitlements.Service
	RecognizeService    *recognize.Service

	Gate       *entitlements.Gate
	GoogleAuth *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var userRepo users.Repo
	var entRepo entitlements.Repo
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		entRepo = &entitlements.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		entRepo = entitlements.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo)
	entSvc := entitlements.NewService(entRepo, cfg.EntitlementTTL)
	gate := &entitlements.Gate{Svc: entSvc}

	recognizeSvc := &recognize.Service{PDFFastPath: cfg.PDFTextFastPath}
	if cfg.VisionEndpoint != "" && cfg.VisionKey != "" {
		client, err := recognize.NewClient(cfg.VisionEndpoint, cfg.VisionKey, cfg.VisionMaxAttempts, cfg.VisionPollDelay)
		if err != nil {
			return nil, err
		}
		recognizeSvc.Client = client
	} else if !isDevLike(cfg.Env) {
		return nil, fmt.Errorf("VISION_ENDPOINT and VISION_KEY are required")
	} else {
		log.Printf("bootstrap: vision credentials empty; recognition disabled")
	}

	var checkout *billing.CheckoutClient
	if cfg.PaySecretKey != "" {
		checkout, err = billing.NewCheckoutClient(cfg.PayAPIBase, cfg.PaySecretKey, cfg.PayPriceID, cfg.PaySuccessURL, cfg.PayCancelURL)
		if err != nil {
			return nil, err
		}
	} else if !isDevLike(cfg.Env) {
		return nil, fmt.Errorf("PAY_SECRET_KEY is required")
	} else {
		log.Printf("bootstrap: payment credentials empty; checkout disabled")
	}

	googleAuthSvc := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		cfg.SessionTTL,
		userSvc,
	)

	app := &App{
		Config:              cfg,
		DB:                  sqlDB,
		UsersRepo:           userRepo,
		EntitlementsRepo:    entRepo,
		UsersService:        userSvc,
		EntitlementsService: entSvc,
		RecognizeService:    recognizeSvc,
		Gate:                gate,
		GoogleAuth:          googleAuthSvc,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Health:             health.NewService(),
		GoogleAuth:         googleAuthSvc,
		UserHandler:        users.NewHandler(userSvc),
		RecognizeHandler:   recognize.NewHandler(recognizeSvc, gate),
		EntitlementHandler: entitlements.NewHandler(entSvc),
		BillingHandler:     billing.NewHandler(checkout, entSvc, cfg.PayWebhookSecret),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
