package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/storefront-api/internal/application/auth"
	"github.com/storefront-api/internal/application/cart"
	"github.com/storefront-api/internal/application/catalog"
	"github.com/storefront-api/internal/application/checkout"
	"github.com/storefront-api/internal/application/order"
	"github.com/storefront-api/internal/application/profile"
	"github.com/storefront-api/internal/application/session"
	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/storefront-api/internal/infrastructure/jwt"
	redisinfra "github.com/storefront-api/internal/infrastructure/redis"
	s3infra "github.com/storefront-api/internal/infrastructure/s3"
	"github.com/storefront-api/internal/infrastructure/smtp"
	"github.com/storefront-api/internal/infrastructure/sns"
	"github.com/storefront-api/internal/transport/http/handler"
	appmiddleware "github.com/storefront-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ProductRepo      *dynamo.ProductRepo
	CartRepo         *dynamo.CartRepo
	CustomerRepo     *dynamo.CustomerRepo
	OrderRepo        *dynamo.OrderRepo
	SessionRepo      *dynamo.SessionRepo
	VerificationRepo *dynamo.VerificationRepo
	CartCache        redisinfra.CartCache
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
	Logger           *slog.Logger
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 3 requests/minute per IP on the OTP endpoints, matching the mailbox
	// flood protection; a small burst absorbs client retries.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(float64(3)/60), 3)

	pricing := cart.Pricing{
		Currency:           cfg.Currency,
		FlatFeeMinor:       cfg.FlatShippingFeeMinor,
		FreeThresholdMinor: cfg.FreeShippingThresholdMinor,
	}

	catalogSvc := catalog.NewService(deps.ProductRepo, deps.S3Store, cfg.Currency)
	cartSvc := cart.NewService(deps.CartRepo, deps.ProductRepo, deps.CartCache, pricing)
	authSvc := auth.NewService(deps.VerificationRepo, deps.SessionRepo, deps.CustomerRepo,
		deps.JWTProvider, deps.Mailer, deps.Logger, cfg)
	sessionSvc := session.NewService(deps.SessionRepo, deps.CustomerRepo)
	profileSvc := profile.NewService(deps.CustomerRepo, deps.Mailer, deps.Logger,
		cfg.StoreName, cfg.OwnerEmail)
	checkoutSvc := checkout.NewService(cartSvc, deps.CustomerRepo, deps.OrderRepo,
		deps.Mailer, deps.SMSSender, deps.Logger, cfg.OwnerEmail)
	orderSvc := order.NewService(deps.OrderRepo)

	healthH := handler.NewHealthHandler()
	productH := handler.NewProductHandler(catalogSvc)
	cartH := handler.NewCartHandler(cartSvc)
	otpH := handler.NewOTPHandler(authSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	customerH := handler.NewCustomerHandler(profileSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc, sessionSvc)
	orderH := handler.NewOrderHandler(orderSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/products", productH.List)
		r.Get("/products/{id}", productH.Get)
		r.With(otpRL.Limit).Post("/otp/send", otpH.Send)
		r.With(otpRL.Limit).Post("/otp/verify", otpH.Verify)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/customers/me", customerH.Get)
			r.Put("/customers/me", customerH.Upsert)

			r.Get("/cart", cartH.Get)
			r.Post("/cart/items", cartH.AddItem)
			r.Put("/cart/items/{productID}", cartH.SetQuantity)
			r.Delete("/cart/items/{productID}", cartH.RemoveItem)
			r.Delete("/cart", cartH.Clear)

			r.Get("/checkout/summary", checkoutH.Summary)
			r.Post("/checkout", checkoutH.Submit)

			r.Get("/my-orders", orderH.ListMine)
			r.Get("/orders/{id}", orderH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/products", productH.Create)
				r.Put("/products/{id}", productH.Update)
				r.Delete("/products/{id}", productH.Deactivate)
				r.Put("/orders/{id}/status", orderH.UpdateStatus)
			})
		})
	})

	return r
}
