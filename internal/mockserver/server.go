// Package mockserver is an in-memory stand-in for the production backend.
// It serves the account, geocoding and collection-point endpoints the client
// consumes, with the same wire shapes and auth failure details, so the CLI
// can be exercised end to end without the real stack.
package mockserver

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	accountsAPI "ecomapa/internal/mockserver/accounts"
	geoAPI "ecomapa/internal/mockserver/geo"
	"ecomapa/internal/mockserver/middleware/auth"
	"ecomapa/internal/mockserver/middleware/logger"
	pointsAPI "ecomapa/internal/mockserver/points"
	"ecomapa/internal/mockserver/store"
)

// Server bundles the router with its state so tests can reach into the
// store directly.
type Server struct {
	Mux   *chi.Mux
	Store *store.Store
}

// New builds the full mock API on a chi mux with every operation registered
// through huma.
func New(log *slog.Logger) *Server {
	mux := chi.NewMux()
	st := store.New()

	config := huma.DefaultConfig("EcoMapa Mock API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	api := humachi.New(mux, config)

	authMW := auth.New(st, log)
	loggerMW := logger.New(log)

	public := huma.Middlewares{loggerMW.Middleware()}
	protected := huma.Middlewares{loggerMW.Middleware(), authMW.Middleware()}

	accountsHandler := accountsAPI.NewHandler(st, log, public, protected)
	accountsHandler.SetupRoutes(api)

	geoHandler := geoAPI.NewHandler(log, protected)
	geoHandler.SetupRoutes(api)

	pointsHandler := pointsAPI.NewHandler(st, log, protected)
	pointsHandler.SetupRoutes(api)

	// Image upload is multipart form data, bypassing the huma JSON layer.
	mux.Post("/eco-points/collection-point/{id}/upload_image/", pointsHandler.UploadImage)

	return &Server{Mux: mux, Store: st}
}
