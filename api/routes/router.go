package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gemvault/gemvault-backend/api/controllers"
	analyticscontrollers "github.com/gemvault/gemvault-backend/api/controllers/analytics"
	authcontrollers "github.com/gemvault/gemvault-backend/api/controllers/auth"
	expensecontrollers "github.com/gemvault/gemvault-backend/api/controllers/expenses"
	ordercontrollers "github.com/gemvault/gemvault-backend/api/controllers/orders"
	productcontrollers "github.com/gemvault/gemvault-backend/api/controllers/products"
	"github.com/gemvault/gemvault-backend/api/middleware"
	"github.com/gemvault/gemvault-backend/internal/analytics"
	"github.com/gemvault/gemvault-backend/internal/auth"
	"github.com/gemvault/gemvault-backend/internal/expenses"
	"github.com/gemvault/gemvault-backend/internal/orders"
	product "github.com/gemvault/gemvault-backend/internal/products"
	"github.com/gemvault/gemvault-backend/pkg/auth/session"
	"github.com/gemvault/gemvault-backend/pkg/config"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	"github.com/gemvault/gemvault-backend/pkg/logger"
	"github.com/gemvault/gemvault-backend/pkg/redis"
)

// Dependencies carries everything the HTTP surface is built from.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer
	// Ready lists the dependencies probed by /health/ready; nil entries are skipped.
	Ready map[string]controllers.Pinger

	Auth      auth.Service
	Products  product.Service
	Orders    orders.Service
	Expenses  expenses.Service
	Analytics analytics.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.SecureHeaders(cfg.App),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	var store redis.IdempotencyStore
	if deps.Redis != nil {
		store = deps.Redis
	}
	idempotent := middleware.Idempotency(store, logg)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(cfg.RateLimit.PublicRequestsPerMinute, logg))

		r.Get("/api/products", productcontrollers.StorefrontList(deps.Products, logg))
		r.Get("/api/products/{productId}", productcontrollers.StorefrontGet(deps.Products, logg))
		r.With(idempotent).Post("/api/orders", ordercontrollers.Place(deps.Orders, logg))
		r.Get("/api/orders/{orderNumber}", ordercontrollers.Track(deps.Orders, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			loginPolicy := middleware.LoginRateLimitPolicy{
				Window:     cfg.RateLimit.LoginWindow,
				IPLimit:    cfg.RateLimit.LoginLimit,
				EmailLimit: cfg.RateLimit.LoginLimit,
			}
			login := authcontrollers.Login(deps.Auth, logg)
			if deps.Redis != nil {
				r.With(middleware.LoginRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", login)
			} else {
				r.Post("/login", login)
			}

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Post("/logout", authcontrollers.Logout(deps.Auth, logg))
				r.Get("/me", authcontrollers.Me(deps.Auth, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.AdminRoleAdmin, enums.AdminRoleOwner))
			r.Use(middleware.RateLimitByIP(cfg.RateLimit.AdminRequestsPerMinute, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productcontrollers.AdminList(deps.Products, logg))
				r.Post("/", productcontrollers.Create(deps.Products, logg))
				r.Get("/{productId}", productcontrollers.AdminGet(deps.Products, logg))
				r.Put("/{productId}", productcontrollers.Update(deps.Products, logg))
				r.Delete("/{productId}", productcontrollers.Delete(deps.Products, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.Orders, logg))
				r.With(idempotent).Post("/", ordercontrollers.Create(deps.Orders, logg))
				r.Post("/cleanup-stale", ordercontrollers.CleanupStale(deps.Orders, logg))
				r.Get("/{id}", ordercontrollers.Get(deps.Orders, logg))
				r.Put("/{id}", ordercontrollers.Update(deps.Orders, logg))
				r.Delete("/{id}", ordercontrollers.Delete(deps.Orders, logg))
				r.Post("/{id}/approve", ordercontrollers.Approve(deps.Orders, logg))
				r.Post("/{id}/send-payment-qr", ordercontrollers.SendPaymentQR(deps.Orders, logg))
				r.Post("/{id}/confirm-payment", ordercontrollers.ConfirmPayment(deps.Orders, logg))
				r.Post("/{id}/ship", ordercontrollers.Ship(deps.Orders, logg))
				r.Post("/{id}/deliver", ordercontrollers.Deliver(deps.Orders, logg))
				r.Post("/{id}/cancel", ordercontrollers.Cancel(deps.Orders, logg))
				r.Post("/{id}/send-whatsapp", ordercontrollers.SendWhatsApp(deps.Orders, logg))
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expensecontrollers.List(deps.Expenses, logg))
				r.With(idempotent).Post("/", expensecontrollers.Create(deps.Expenses, logg))
				r.Get("/{expenseId}", expensecontrollers.Get(deps.Expenses, logg))
				r.Put("/{expenseId}", expensecontrollers.Update(deps.Expenses, logg))
				r.Delete("/{expenseId}", expensecontrollers.Delete(deps.Expenses, logg))
			})

			r.Route("/expense-categories", func(r chi.Router) {
				r.Get("/", expensecontrollers.ListCategories(deps.Expenses, logg))
				r.Post("/", expensecontrollers.CreateCategory(deps.Expenses, logg))
				r.Put("/{categoryId}", expensecontrollers.UpdateCategory(deps.Expenses, logg))
				r.Delete("/{categoryId}", expensecontrollers.DeleteCategory(deps.Expenses, logg))
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/", analyticscontrollers.Get(deps.Analytics, logg))
				r.Post("/refresh", analyticscontrollers.Refresh(deps.Analytics, logg))
				r.Get("/status", analyticscontrollers.Status(deps.Analytics, logg))
				r.Get("/history", analyticscontrollers.History(deps.Analytics, logg))
			})
			r.Get("/dashboard", analyticscontrollers.Dashboard(deps.Analytics, logg))
		})
	})

	return r
}
