package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"admaker/internal/http/handlers"
	"admaker/internal/infra/geoip"
	"admaker/internal/middleware"
)

// NewRouter wires every endpoint. The billing webhook stays outside the auth
// group because its signature is its authentication; everything else that
// mutates state requires a valid token.
func NewRouter(app *handlers.App, countries geoip.CountryResolver, staticDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger, countries),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/webhooks/billing", app.BillingWebhook)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", app.CampaignsCreate)
			r.Get("/", app.CampaignsList)
			r.Get("/{campaign_id}", app.CampaignDetail)
			r.Delete("/{campaign_id}", app.CampaignDelete)
			r.Get("/{campaign_id}/download", app.CampaignDownload)
			r.Post("/{campaign_id}/favorites", app.AdsFavoriteAll)
			r.Post("/{campaign_id}/ads/{ad_id}/edit", app.AdEdit)
		})

		r.Route("/ads", func(r chi.Router) {
			r.Post("/{ad_id}/favorite", app.AdFavorite)
			r.Delete("/{ad_id}", app.AdDelete)
		})

		r.Route("/credits", func(r chi.Router) {
			r.Get("/", app.CreditsBalance)
			r.Post("/checkout", app.CheckoutCreate)
		})
	})

	if staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
