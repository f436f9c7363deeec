package accounts

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID:   "accounts-register",
		Method:        http.MethodPost,
		Path:          "/accounts/register/",
		Summary:       "Register a new account",
		Tags:          []string{"accounts"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.public,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "accounts-login",
		Method:      http.MethodPost,
		Path:        "/accounts/login/",
		Summary:     "Obtain an access/refresh token pair",
		Tags:        []string{"accounts"},
		Middlewares: h.public,
	}
}

func (h *Handler) logoutOp() huma.Operation {
	return huma.Operation{
		OperationID:   "accounts-logout",
		Method:        http.MethodPost,
		Path:          "/accounts/logout/",
		Summary:       "Blacklist the session's tokens",
		Tags:          []string{"accounts"},
		DefaultStatus: http.StatusResetContent,
		Middlewares:   h.protected,
	}
}

func (h *Handler) verifyOp() huma.Operation {
	return huma.Operation{
		OperationID: "accounts-token-verify",
		Method:      http.MethodPost,
		Path:        "/accounts/token/verify/",
		Summary:     "Verify a token",
		Tags:        []string{"accounts"},
		Middlewares: h.public,
	}
}

func (h *Handler) refreshOp() huma.Operation {
	return huma.Operation{
		OperationID: "accounts-token-refresh",
		Method:      http.MethodPost,
		Path:        "/accounts/token/refresh/",
		Summary:     "Mint a new access token",
		Tags:        []string{"accounts"},
		Middlewares: h.public,
	}
}

func (h *Handler) meOp() huma.Operation {
	return huma.Operation{
		OperationID: "accounts-me",
		Method:      http.MethodGet,
		Path:        "/accounts/me/",
		Summary:     "Current account profile",
		Tags:        []string{"accounts"},
		Middlewares: h.protected,
	}
}
