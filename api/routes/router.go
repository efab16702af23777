package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/universalshop/shop-backend/api/controllers"
	"github.com/universalshop/shop-backend/api/middleware"
	"github.com/universalshop/shop-backend/internal/catalog"
	"github.com/universalshop/shop-backend/internal/orders"
	"github.com/universalshop/shop-backend/internal/views"
	"github.com/universalshop/shop-backend/pkg/config"
	"github.com/universalshop/shop-backend/pkg/logger"
)

type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	DB    controllers.Pinger
	Redis controllers.Pinger

	Users       middleware.UserResolver
	Catalog     catalog.Service
	Views       views.Service
	Orders      orders.Service
	Broadcaster controllers.Broadcaster
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, map[string]controllers.Pinger{
			"postgres": p.DB,
			"redis":    p.Redis,
		}))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.ListCategories(p.Catalog, p.Logger))
		r.Get("/products", controllers.ListProducts(p.Catalog, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(p.Users, p.Logger))

			r.Get("/users/me", controllers.Me(p.Logger))
			r.Get("/products/{productId}", controllers.GetProduct(p.Catalog, p.Views, p.Logger))
			r.Post("/orders", controllers.CreateOrder(p.Orders, p.Logger))
			r.Get("/orders", controllers.ListMyOrders(p.Orders, p.Logger))
			r.Get("/views/recent", controllers.RecentView(p.Views, p.Logger))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(p.Logger))

				r.Post("/products", controllers.CreateProduct(p.Catalog, p.Logger))
				r.Put("/orders/{orderId}/status", controllers.UpdateOrderStatus(p.Orders, p.Logger))
				r.Get("/orders/stats", controllers.OrderStats(p.Orders, p.Logger))
				r.Post("/broadcast", controllers.Broadcast(p.Broadcaster, p.Logger))
			})
		})
	})

	return r
}
