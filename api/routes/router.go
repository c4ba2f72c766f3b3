package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftline/storefront-backend/api/controllers"
	"github.com/craftline/storefront-backend/api/middleware"
	"github.com/craftline/storefront-backend/pkg/config"
	"github.com/craftline/storefront-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Payments controllers.PaymentService
	Orders   controllers.OrderService
	Carts    controllers.CartSessions
	Catalog  controllers.CatalogService
	Pingers  map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

// NewRouter builds the HTTP surface. The payment endpoints live at the root
// with a permissive CORS policy; everything else sits under /api/v1 behind
// the storefront origin policy.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
	)

	r.Route("/payment", func(r chi.Router) {
		r.Use(middleware.PaymentCORS())
		r.Post("/create-intent", controllers.CreatePaymentIntent(deps.Payments, deps.Logger))
		r.Post("/confirm", controllers.ConfirmPayment(deps.Payments, deps.Logger))
		r.Get("/status/{orderNumber}", controllers.PaymentStatus(deps.Payments, deps.Logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS())

		r.Post("/checkout", controllers.Checkout(deps.Orders, deps.Carts, deps.Logger))
		r.Get("/orders/{orderNumber}", controllers.GetOrder(deps.Orders, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", controllers.CreateCartSession(deps.Carts, deps.Logger))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Carts, deps.Logger))
				r.Delete("/", controllers.ClearCart(deps.Carts, deps.Logger))
				r.Post("/items", controllers.AddCartItem(deps.Carts, deps.Logger))
				r.Put("/items/{itemKey}", controllers.SetCartItemQuantity(deps.Carts, deps.Logger))
				r.Delete("/items/{itemKey}", controllers.RemoveCartItem(deps.Carts, deps.Logger))
			})
		})

		r.Get("/products", controllers.ListProducts(deps.Catalog, deps.Logger))
		r.Get("/products/{slug}", controllers.GetProduct(deps.Catalog, deps.Logger))
	})

	r.Get("/health/live", controllers.HealthLive(deps.Config))
	r.Get("/health/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Pingers))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
