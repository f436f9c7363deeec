package client

import (
	"fmt"

	"golang.org/x/exp/slog"

	"ecomapa/internal/app/client/config"
	"ecomapa/internal/domain/point"
)

// App wires the client services together: one storage, one session, one set
// of API gateways. Everything is an explicit instance handed down by
// reference; there are no ambient singletons.
type App struct {
	cfg *config.Config
	log *slog.Logger

	storage *SQLiteStorage

	Tokens   *TokenStore
	Session  *SessionClient
	Auth     *AuthAPI
	Points   *PointsAPI
	Geocoder *GeocodingGateway

	validator *point.DraftValidator
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	tokens := NewTokenStore(storage)
	session := NewSessionClient(cfg, tokens, log)

	return &App{
		cfg:       cfg,
		log:       log,
		storage:   storage,
		Tokens:    tokens,
		Session:   session,
		Auth:      NewAuthAPI(session, tokens, log),
		Points:    NewPointsAPI(session, log),
		Geocoder:  NewGeocodingGateway(session, storage, log),
		validator: point.NewDraftValidator(),
	}, nil
}

// NewWizard starts a submission wizard over the given draft.
func (a *App) NewWizard(draft *point.Draft) *Wizard {
	return NewWizard(draft, a.validator, a.Geocoder, a.Points, a.log)
}

func (a *App) Close() error {
	return a.storage.Close()
}
