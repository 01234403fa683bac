package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/config"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/server"
	"digital-downloads-store/internal/service"
	"digital-downloads-store/internal/storage"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	tokenTTL, err := time.ParseDuration(cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("invalid AUTH_TOKEN_TTL", slog.Any("error", err))
		os.Exit(1)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)

	store, err := storage.NewStore(cfg.Files)
	if err != nil {
		slog.Error("init file store", slog.Any("error", err))
		os.Exit(1)
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe, cfg.FrontendURL)
	mailClient := client.NewMailClient(cfg.SMTP)
	defer mailClient.Close()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	contactRepo := repository.NewContactRepository(db)
	faqRepo := repository.NewFaqRepository(db)

	const displayOrder = "sort_order ASC, id ASC"
	heroRepo := repository.NewContentRepository[model.HeroSlide](db, displayOrder)
	featureRepo := repository.NewContentRepository[model.HomeFeature](db, displayOrder)
	statRepo := repository.NewContentRepository[model.HomeStat](db, displayOrder)
	showcaseRepo := repository.NewContentRepository[model.HomeShowcase](db, displayOrder)
	socialRepo := repository.NewContentRepository[model.SocialLink](db, displayOrder)
	navRepo := repository.NewContentRepository[model.NavigationLink](db, displayOrder)

	authService := service.NewAuthService(userRepo, tokenRepo, mailClient, cfg.FrontendURL, cfg.Auth.JWTSecret, tokenTTL)
	go sweepExpiredTokens(authService)
	catalogService := service.NewCatalogService(service.CatalogRepos{
		Products:      productRepo,
		Categories:    categoryRepo,
		Bundles:       bundleRepo,
		Comments:      commentRepo,
		Orders:        orderRepo,
		Faqs:          faqRepo,
		HeroSlides:    heroRepo,
		HomeFeatures:  featureRepo,
		HomeStats:     statRepo,
		HomeShowcases: showcaseRepo,
		SocialLinks:   socialRepo,
		NavLinks:      navRepo,
	})
	cartService := service.NewCartService(cartRepo, productRepo, bundleRepo, orderRepo)
	paymentService := service.NewPaymentService(stripeClient, mailClient, cartRepo, bundleRepo, orderRepo, userRepo, cfg.BypassPayment)
	commentService := service.NewCommentService(commentRepo, productRepo, userRepo, mailClient)
	subscriberService := service.NewSubscriberService(subscriberRepo, mailClient, cfg.FrontendURL)
	contactService := service.NewContactService(contactRepo, subscriberRepo, mailClient, cfg.SMTP.AdminEmail)
	accountService := service.NewAccountService(orderRepo, productRepo, store)
	adminService := service.NewAdminService(userRepo, subscriberRepo, productRepo, orderRepo, contactRepo)
	adminCatalogService := service.NewAdminCatalogService(productRepo, categoryRepo, bundleRepo, faqRepo, store)

	srv := server.NewServer(server.Deps{
		Auth:         authService,
		Catalog:      catalogService,
		Comments:     commentService,
		Cart:         cartService,
		Payments:     paymentService,
		Subscribers:  subscriberService,
		Contact:      contactService,
		Account:      accountService,
		Admin:        adminService,
		AdminCatalog: adminCatalogService,
		Orders:       orderRepo,
		HeroSlides:   heroRepo,
		Features:     featureRepo,
		Stats:        statRepo,
		Showcases:    showcaseRepo,
		SocialLinks:  socialRepo,
		NavLinks:     navRepo,
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	slog.Info("starting HTTP server", slog.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	slog.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}
}

// sweepExpiredTokens prunes stale auth token rows once at startup and then
// hourly for the life of the process.
func sweepExpiredTokens(authService service.AuthService) {
	prune := func() {
		if err := authService.PruneExpiredTokens(context.Background()); err != nil {
			slog.Warn("prune expired tokens", slog.Any("error", err))
		}
	}

	prune()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		prune()
	}
}

func setupLogger(cfg config.Log) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
