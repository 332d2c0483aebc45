package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tradelink-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/tradelink-backend/api/controllers/orders"
	"github.com/angelmondragon/tradelink-backend/api/middleware"
	"github.com/angelmondragon/tradelink-backend/internal/auth"
	"github.com/angelmondragon/tradelink-backend/internal/favorites"
	"github.com/angelmondragon/tradelink-backend/internal/notifications"
	"github.com/angelmondragon/tradelink-backend/internal/orders"
	"github.com/angelmondragon/tradelink-backend/internal/partnerships"
	product "github.com/angelmondragon/tradelink-backend/internal/products"
	"github.com/angelmondragon/tradelink-backend/internal/search"
	"github.com/angelmondragon/tradelink-backend/internal/stats"
	"github.com/angelmondragon/tradelink-backend/internal/users"
	"github.com/angelmondragon/tradelink-backend/pkg/auth/session"
	"github.com/angelmondragon/tradelink-backend/pkg/config"
	"github.com/angelmondragon/tradelink-backend/pkg/db"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
	"github.com/angelmondragon/tradelink-backend/pkg/redis"
)

// Dependencies holds everything the HTTP surface calls into.
type Dependencies struct {
	DB            db.Pinger
	Redis         redis.Pinger
	Idempotency   redis.ReplayStore
	Sessions      session.Checker
	Metrics       http.Handler
	Auth          auth.Service
	Users         users.Service
	Products      product.Service
	Orders        orders.Service
	Partnerships  partnerships.Service
	Notifications notifications.Service
	Favorites     favorites.Service
	Search        search.Service
	Stats         stats.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/users/me", controllers.UserMe(deps.Users, logg))
		r.Get("/partners/{role}", controllers.ListPartners(deps.Users, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.With(
				middleware.RequireRoles(logg, enums.RoleRetailer),
				middleware.Idempotency(deps.Idempotency, cfg.Idempotency.TTL, logg),
			).Post("/", ordercontrollers.Create(deps.Orders, logg))
			r.Get("/history/{partnerId}", ordercontrollers.History(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.RoleDistributor))
				r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
				r.Patch("/{orderId}/delivery-mode", ordercontrollers.UpdateDeliveryMode(deps.Orders, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/categories", controllers.ProductCategories(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
			r.With(middleware.RequireRoles(logg, enums.RoleManufacturer)).
				Post("/", controllers.ProductCreate(deps.Products, logg))
		})
		r.With(middleware.RequireRoles(logg, enums.RoleDistributor)).
			Get("/inventory", controllers.InventoryList(deps.Products, logg))

		r.Route("/partnerships", func(r chi.Router) {
			r.Get("/", controllers.PartnershipsSent(deps.Partnerships, logg))
			r.Get("/received", controllers.PartnershipsReceived(deps.Partnerships, logg))
			r.Post("/request", controllers.PartnershipRequest(deps.Partnerships, logg))
			r.Patch("/{partnershipId}/respond", controllers.PartnershipRespond(deps.Partnerships, logg))
		})

		r.Get("/notifications", controllers.ListNotifications(deps.Notifications, logg))

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(deps.Favorites, logg))
			r.Post("/", controllers.FavoritesAdd(deps.Favorites, logg))
			r.Delete("/{favoriteUserId}", controllers.FavoritesRemove(deps.Favorites, logg))
			r.Get("/{favoriteUserId}/check", controllers.FavoritesCheck(deps.Favorites, logg))
		})
		r.Get("/search/history", controllers.SearchHistory(deps.Search, logg))
		r.Post("/search/history", controllers.SearchRecord(deps.Search, logg))
		r.Get("/stats", controllers.StatsSummary(deps.Stats, logg))
	})

	return r
}
