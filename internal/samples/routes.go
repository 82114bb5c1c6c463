package samples

import (
	"net/http"

	"github.com/AquaIndex/HMPI-Backend/internal/auth"
	"github.com/AquaIndex/HMPI-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Get("/", ListSamples)
	r.Get("/hotspots", GetHotspots)
	r.Get("/{sample_id}", GetSample)
	r.Get("/{sample_id}/result", GetResult)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.RateLimitMiddleware(5, 10))
		r.Post("/", SubmitHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))
		r.Post("/{sample_id}/recompute", RecomputeHandler)
	})

	return r
}
