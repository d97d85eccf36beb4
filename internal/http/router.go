package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
)

// NewRouter wires the storefront API. Every route below /api/v1 is scoped
// to the caller's session.
func NewRouter(sessions *app.Registry) http.Handler {
	cartH := NewCartHandler(sessions)
	wishH := NewWishlistHandler(sessions)
	authH := NewAuthHandler(sessions)
	ordersH := NewOrdersHandler(sessions)
	productsH := NewProductsHandler(sessions)
	uiH := NewUIHandler(sessions)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.Clear)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{product_id}", cartH.UpdateQuantity)
			r.Delete("/items/{product_id}", cartH.RemoveItem)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishH.GetWishlist)
			r.Post("/items", wishH.AddItem)
			r.Post("/toggle", wishH.Toggle)
			r.Delete("/items/{product_id}", wishH.RemoveItem)
			r.Post("/items/{product_id}/move-to-cart", wishH.MoveToCart)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authH.Login)
			r.Post("/signup", authH.Signup)
			r.Post("/logout", authH.Logout)
			r.Get("/session", authH.Session)
		})
		r.Post("/checkout", ordersH.Checkout)
		r.Get("/orders", ordersH.ListOrders)
		r.Route("/products", func(r chi.Router) {
			r.Put("/", productsH.LoadProducts)
			r.Get("/", productsH.SearchProducts)
		})
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", productsH.GetPreferences)
			r.Put("/", productsH.UpdatePreferences)
		})
		r.Route("/ui", func(r chi.Router) {
			r.Get("/actions", uiH.ListActions)
			r.Post("/actions/{action}", uiH.Dispatch)
			r.Get("/modals", uiH.GetModals)
			r.Post("/modals/{modal_id}/open", uiH.OpenModal)
			r.Post("/modals/{modal_id}/close", uiH.CloseModal)
			r.Post("/modals/key", uiH.ModalKey)
			r.Post("/nav/toggle", uiH.ToggleMenu)
			r.Post("/nav/resize", uiH.Resize)
		})
	})

	return otelhttp.NewHandler(r, "petshop")
}
