package mockserver_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"ecomapa/internal/app/client"
	"ecomapa/internal/app/client/config"
	"ecomapa/internal/domain/geo"
	"ecomapa/internal/domain/hours"
	"ecomapa/internal/domain/point"
	"ecomapa/internal/mockserver"
)

type fixture struct {
	server *mockserver.Server
	ts     *httptest.Server
	app    *client.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := mockserver.New(slog.Default())
	ts := httptest.NewServer(srv.Mux)
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		Env:       config.EnvLocal,
		APIURL:    ts.URL,
		LogLevel:  "debug",
		ConfigDir: dir,
		DataPath:  filepath.Join(dir, "test.db"),
	}

	app, err := client.New(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	return &fixture{server: srv, ts: ts, app: app}
}

func (f *fixture) signUp(t *testing.T, email string) {
	t.Helper()
	ctx := context.Background()

	err := f.app.Auth.Register(ctx, client.RegisterRequest{
		FirstName:       "Ana",
		LastName:        "Silva",
		Email:           email,
		Password:        "sup3r-secret",
		ConfirmPassword: "sup3r-secret",
	})
	require.NoError(t, err)
	require.NoError(t, f.app.Auth.Login(ctx, email, "sup3r-secret"))
}

func writeImage(t *testing.T, dir, name string) point.Image {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0600))
	return point.Image{URI: path, Filename: name, Mime: "image/jpeg"}
}

func TestEndToEnd_RegisterLoginProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, "ana@example.com")

	user, err := f.app.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.FirstName)

	ok, err := f.app.Session.VerifyOrRefreshTokens(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEndToEnd_DuplicateEmailRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, "ana@example.com")

	err := f.app.Auth.Register(ctx, client.RegisterRequest{
		FirstName:       "Other",
		LastName:        "Person",
		Email:           "ana@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	})
	require.Error(t, err)
}

func TestEndToEnd_StaleAccessTokenRefreshes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, "ana@example.com")

	oldAccess, err := f.app.Tokens.GetAccess(ctx)
	require.NoError(t, err)
	oldRefresh, err := f.app.Tokens.GetRefresh(ctx)
	require.NoError(t, err)

	f.server.Store.RevokeAccess(oldAccess)

	// The next protected call must transparently refresh and retry.
	user, err := f.app.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	newAccess, err := f.app.Tokens.GetAccess(ctx)
	require.NoError(t, err)
	newRefresh, err := f.app.Tokens.GetRefresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, oldAccess, newAccess)
	assert.Equal(t, oldRefresh, newRefresh)
}

func TestEndToEnd_FullSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, "ana@example.com")

	dir := t.TempDir()
	draft := &point.Draft{
		Name:        "Ecoponto Vila Madalena",
		Description: "Accepts recyclables on weekdays",
		Types:       []int{1, 2, 3},
		Images: []point.Image{
			writeImage(t, dir, "front.jpg"),
			writeImage(t, dir, "gate.jpg"),
		},
		Address: geo.StreetAddress{
			Street:       "Rua Harmonia",
			Number:       "145",
			Postcode:     "05435-000",
			Neighborhood: "Vila Madalena",
		},
		Hours: hours.NewSchedule(),
	}
	draft.Hours.Weekdays = hours.DaySelection{Selected: true, Open: "09:00", Close: "18:00"}
	draft.Hours.Days[hours.Saturday] = hours.DaySelection{Selected: true, Open: "10:00", Close: "14:00"}

	wiz := f.app.NewWizard(draft)
	result, err := wiz.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Uploaded)
	assert.Empty(t, result.ImageErrors)

	created, err := f.app.Points.Get(ctx, result.Point.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ecoponto Vila Madalena", created.Name)
	assert.Len(t, created.OperatingHours, 6)
	assert.Len(t, created.Images, 2)

	// Saturday carries its own hours, weekdays the bulk ones.
	last := created.OperatingHours[len(created.OperatingHours)-1]
	assert.Equal(t, int(hours.Saturday), last.DayOfWeek)
	assert.Equal(t, "10:00:00", last.OpeningTime)
	assert.Equal(t, "09:00:00", created.OperatingHours[0].OpeningTime)

	page, err := f.app.Points.MySubmits(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)

	listed, err := f.app.Points.List(ctx, point.ListFilter{Types: []int{2}})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	empty, err := f.app.Points.List(ctx, point.ListFilter{Types: []int{7}})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEndToEnd_DuplicateNameConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, "ana@example.com")

	dir := t.TempDir()
	newDraft := func() *point.Draft {
		return &point.Draft{
			Name:        "Ecoponto Central",
			Description: "d",
			Types:       []int{1},
			Images:      []point.Image{writeImage(t, dir, "a.jpg")},
			Coordinates: &geo.Coordinates{Latitude: -23.5505199, Longitude: -46.6333094},
			Hours:       hours.NewSchedule(),
		}
	}

	_, err := f.app.NewWizard(newDraft()).Submit(ctx)
	require.NoError(t, err)

	wiz := f.app.NewWizard(newDraft())
	_, err = wiz.Submit(ctx)
	require.ErrorIs(t, err, point.ErrNameTaken)
	assert.Equal(t, point.StepBasicInfo, wiz.Step())
}

func TestEndToEnd_ReverseGeocodeCacheSurvivesServer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, "ana@example.com")

	first, err := f.app.Geocoder.Reverse(ctx, -23.5505199, -46.6333094)
	require.NoError(t, err)
	require.NotEmpty(t, first.DisplayName)

	f.ts.Close()

	second, err := f.app.Geocoder.Reverse(ctx, -23.5505199, -46.6333094)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEndToEnd_LogoutBlacklistsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, "ana@example.com")

	access, err := f.app.Tokens.GetAccess(ctx)
	require.NoError(t, err)
	refresh, err := f.app.Tokens.GetRefresh(ctx)
	require.NoError(t, err)

	require.NoError(t, f.app.Auth.Logout(ctx))

	left, err := f.app.Tokens.GetAccess(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)

	// Replaying the old pair must hit the blacklist: the access token is
	// rejected, the refresh attempt is rejected, the session expires.
	require.NoError(t, f.app.Tokens.Save(ctx, access, refresh))

	expired := false
	f.app.Session.OnSessionExpired(func() { expired = true })

	_, err = f.app.Auth.Me(ctx)
	require.ErrorIs(t, err, client.ErrSessionExpired)
	assert.True(t, expired)

	cleared, err := f.app.Tokens.GetRefresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}
