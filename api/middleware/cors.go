package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var storefrontOrigins = []string{
	"http://localhost:3000", // local dev
	"https://craftline.store",
	"https://www.craftline.store",
}

// CORS returns middleware that applies the storefront's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   storefrontOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Cart-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Cart-Session"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

// PaymentCORS allows any origin on the payment endpoints. The storefront is
// embedded in contexts where the origin is not known ahead of time; the
// endpoints carry no credentials.
func PaymentCORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}).Handler
}
