package accounts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"ecomapa/internal/domain/point"
	"ecomapa/internal/mockserver/drf"
	"ecomapa/internal/mockserver/middleware/auth"
	"ecomapa/internal/mockserver/store"
)

type Handler struct {
	store     *store.Store
	log       *slog.Logger
	public    huma.Middlewares
	protected huma.Middlewares
}

func NewHandler(st *store.Store, log *slog.Logger, public, protected huma.Middlewares) *Handler {
	return &Handler{
		store:     st,
		log:       log,
		public:    public,
		protected: protected,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
	huma.Register(api, h.verifyOp(), h.verify)
	huma.Register(api, h.refreshOp(), h.refresh)
	huma.Register(api, h.meOp(), h.me)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	b := input.Body
	fields := map[string][]string{}
	if strings.TrimSpace(b.Email) == "" {
		fields["email"] = []string{"This field is required."}
	}
	if b.Password == "" {
		fields["password"] = []string{"This field is required."}
	}
	if b.Password != b.ConfirmPassword {
		fields["confirm_password"] = []string{"Passwords do not match."}
	}
	if len(fields) > 0 {
		return nil, drf.Fields(http.StatusBadRequest, fields)
	}

	acc, err := h.store.Register(b.FirstName, b.LastName, b.Email, b.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, drf.Fields(http.StatusBadRequest, map[string][]string{
				"email": {"account with this email already exists."},
			})
		}
		return nil, err
	}

	access, refresh, err := h.store.IssuePair(acc.ID)
	if err != nil {
		return nil, err
	}

	h.log.Info("account registered", "id", acc.ID, "email", acc.Email)
	return &registerOutput{Body: TokenPairResponse{Access: access, Refresh: refresh}}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	acc, err := h.store.Authenticate(input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, drf.Detail(http.StatusUnauthorized, "No active account found with the given credentials")
	}

	access, refresh, err := h.store.IssuePair(acc.ID)
	if err != nil {
		return nil, err
	}
	return &loginOutput{Body: TokenPairResponse{Access: access, Refresh: refresh}}, nil
}

func (h *Handler) logout(ctx context.Context, input *logoutInput) (*logoutOutput, error) {
	access := ""
	if len(input.Authorization) > 7 {
		access = input.Authorization[7:]
	}
	h.store.Logout(access, input.Body.Refresh)
	return &logoutOutput{}, nil
}

func (h *Handler) verify(ctx context.Context, input *verifyInput) (*verifyOutput, error) {
	if err := h.store.VerifyToken(input.Body.Token); err != nil {
		var tokenErr *store.TokenError
		if errors.As(err, &tokenErr) {
			return nil, drf.Detail(http.StatusUnauthorized, tokenErr.Detail)
		}
		return nil, err
	}
	return &verifyOutput{}, nil
}

func (h *Handler) refresh(ctx context.Context, input *refreshInput) (*refreshOutput, error) {
	access, err := h.store.RefreshAccess(input.Body.Refresh)
	if err != nil {
		var tokenErr *store.TokenError
		if errors.As(err, &tokenErr) {
			return nil, drf.Detail(http.StatusUnauthorized, tokenErr.Detail)
		}
		return nil, err
	}
	return &refreshOutput{Body: AccessResponse{Access: access}}, nil
}

func (h *Handler) me(ctx context.Context, _ *meInput) (*meOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, drf.Detail(http.StatusUnauthorized, store.DetailNotValid)
	}
	acc, ok := h.store.AccountByID(userID)
	if !ok {
		return nil, drf.Detail(http.StatusNotFound, "User not found.")
	}
	return &meOutput{Body: accountToUser(acc)}, nil
}

func accountToUser(acc *store.Account) point.User {
	return point.User{
		ID:        acc.ID,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Email:     acc.Email,
		IsStaff:   acc.IsStaff,
	}
}
