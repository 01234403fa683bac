package server

import (
	"context"
	"log/slog"
	"net/http"

	"digital-downloads-store/internal/handler"
	"digital-downloads-store/internal/middleware"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Deps carries everything the HTTP layer needs. Wiring happens in main.
type Deps struct {
	Auth         service.AuthService
	Catalog      service.CatalogService
	Comments     service.CommentService
	Cart         service.CartService
	Payments     service.PaymentService
	Subscribers  service.SubscriberService
	Contact      service.ContactService
	Account      service.AccountService
	Admin        service.AdminService
	AdminCatalog service.AdminCatalogService

	Orders repository.OrderRepository

	HeroSlides  repository.ContentRepository[model.HeroSlide]
	Features    repository.ContentRepository[model.HomeFeature]
	Stats       repository.ContentRepository[model.HomeStat]
	Showcases   repository.ContentRepository[model.HomeShowcase]
	SocialLinks repository.ContentRepository[model.SocialLink]
	NavLinks    repository.ContentRepository[model.NavigationLink]
}

type Server struct {
	echo *echo.Echo
	deps Deps
}

func NewServer(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler
	e.Validator = newRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogMethod: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
				slog.Error("request", attrs...)
			} else {
				slog.Info("request", attrs...)
			}
			return nil
		},
	}))

	s := &Server{echo: e, deps: deps}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	authHandler := handler.NewAuthHandler(s.deps.Auth)
	catalogHandler := handler.NewCatalogHandler(s.deps.Catalog, s.deps.Comments)
	cartHandler := handler.NewCartHandler(s.deps.Cart)
	paymentHandler := handler.NewPaymentHandler(s.deps.Payments)
	commentHandler := handler.NewCommentHandler(s.deps.Comments)
	newsletterHandler := handler.NewNewsletterHandler(s.deps.Subscribers)
	contactHandler := handler.NewContactHandler(s.deps.Contact)
	accountHandler := handler.NewAccountHandler(s.deps.Account)
	adminHandler := handler.NewAdminHandler(s.deps.Admin, s.deps.Comments, s.deps.Contact, s.deps.Subscribers, s.deps.Orders)
	adminCatalogHandler := handler.NewAdminCatalogHandler(s.deps.AdminCatalog)

	requireAuth := middleware.Auth(s.deps.Auth)
	optionalAuth := middleware.OptionalAuth(s.deps.Auth)

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- public catalog --------
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:slug", catalogHandler.GetProduct, optionalAuth)
	api.GET("/products/:id/comments", catalogHandler.ProductComments)
	api.GET("/featured", catalogHandler.Featured)
	api.GET("/categories", catalogHandler.Categories)
	api.GET("/faqs", catalogHandler.Faqs)
	api.GET("/home-content", catalogHandler.HomeContent)
	api.GET("/comments/recent", catalogHandler.RecentQA)

	// -------- public forms --------
	api.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
	api.GET("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)
	api.POST("/contact", contactHandler.Submit)

	// -------- auth --------
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/logout", authHandler.Logout, requireAuth)
	api.GET("/auth/me", authHandler.Me, requireAuth)

	// -------- stripe webhook (verified by signature, not by session) --------
	api.POST("/webhook/stripe", paymentHandler.Webhook)

	// -------- authenticated --------
	authed := api.Group("", requireAuth)
	authed.GET("/cart", cartHandler.Get)
	authed.POST("/cart", cartHandler.Add)
	authed.POST("/cart/bundles/:id", cartHandler.AddBundle)
	authed.DELETE("/cart/items/:productID", cartHandler.Remove)
	authed.DELETE("/cart", cartHandler.Clear)

	authed.POST("/checkout", paymentHandler.Checkout)
	authed.GET("/payment/success", paymentHandler.Success)

	authed.GET("/dashboard", accountHandler.Dashboard)
	authed.GET("/products/:id/download", accountHandler.Download)
	authed.POST("/products/:id/comments", commentHandler.Create)
	authed.POST("/comments", commentHandler.CreateGeneral)

	// -------- admin --------
	admin := api.Group("/admin", requireAuth, middleware.AdminOnly())

	admin.GET("/stats", adminHandler.Stats)

	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/admin", adminHandler.SetUserAdmin)
	admin.PATCH("/users/:id/verify", adminHandler.VerifyUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	admin.GET("/orders", adminHandler.ListOrders)
	admin.GET("/orders/:id", adminHandler.GetOrder)

	admin.GET("/comments", adminHandler.ListComments)
	admin.PATCH("/comments/:id", adminHandler.ModerateComment)
	admin.POST("/comments/:id/approve", adminHandler.ApproveComment)
	admin.DELETE("/comments/:id", adminHandler.DeleteComment)

	admin.GET("/messages", adminHandler.ListMessages)
	admin.PATCH("/messages/:id/read", adminHandler.MarkMessageRead)

	admin.GET("/subscribers", adminHandler.ListSubscribers)
	admin.GET("/subscribers/export", adminHandler.ExportSubscribers)
	admin.GET("/newsletter/stats", adminHandler.NewsletterStats)
	admin.POST("/newsletter/send", adminHandler.SendNewsletter)

	admin.GET("/products", adminCatalogHandler.ListProducts)
	admin.POST("/products", adminCatalogHandler.CreateProduct)
	admin.GET("/products/:id", adminCatalogHandler.GetProduct)
	admin.PUT("/products/:id", adminCatalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", adminCatalogHandler.DeleteProduct)

	admin.GET("/bundles", adminCatalogHandler.ListBundles)
	admin.POST("/bundles", adminCatalogHandler.CreateBundle)
	admin.GET("/bundles/:id", adminCatalogHandler.GetBundle)
	admin.PUT("/bundles/:id", adminCatalogHandler.UpdateBundle)
	admin.DELETE("/bundles/:id", adminCatalogHandler.DeleteBundle)

	admin.GET("/categories", adminCatalogHandler.ListCategories)
	admin.POST("/categories", adminCatalogHandler.CreateCategory)
	admin.PUT("/categories/:id", adminCatalogHandler.UpdateCategory)
	admin.DELETE("/categories/:id", adminCatalogHandler.DeleteCategory)

	admin.GET("/faqs", adminCatalogHandler.ListFaqs)
	admin.POST("/faqs", adminCatalogHandler.CreateFaq)
	admin.PUT("/faqs/:id", adminCatalogHandler.UpdateFaq)
	admin.DELETE("/faqs/:id", adminCatalogHandler.DeleteFaq)

	admin.GET("/faq-categories", adminCatalogHandler.ListFaqCategories)
	admin.POST("/faq-categories", adminCatalogHandler.CreateFaqCategory)
	admin.PUT("/faq-categories/:id", adminCatalogHandler.UpdateFaqCategory)
	admin.DELETE("/faq-categories/:id", adminCatalogHandler.DeleteFaqCategory)

	content := admin.Group("/content")
	registerContent(content, "/hero-slides", s.deps.HeroSlides)
	registerContent(content, "/features", s.deps.Features)
	registerContent(content, "/stats", s.deps.Stats)
	registerContent(content, "/showcases", s.deps.Showcases)
	registerContent(content, "/social-links", s.deps.SocialLinks)
	registerContent(content, "/navigation-links", s.deps.NavLinks)
}

func registerContent[T any](g *echo.Group, path string, repo repository.ContentRepository[T]) {
	h := handler.NewContentHandler(repo)
	res := g.Group(path)
	res.GET("", h.List)
	res.POST("", h.Create)
	res.GET("/:id", h.Get)
	res.PUT("/:id", h.Update)
	res.DELETE("/:id", h.Delete)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
