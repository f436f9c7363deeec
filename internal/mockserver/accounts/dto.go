package accounts

import "ecomapa/internal/domain/point"

type registerInput struct {
	Body struct {
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
}

type registerOutput struct {
	Body TokenPairResponse
}

type loginInput struct {
	Body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
}

type loginOutput struct {
	Body TokenPairResponse
}

// TokenPairResponse is the login answer.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type logoutInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		Refresh string `json:"refresh"`
	}
}

type logoutOutput struct{}

type verifyInput struct {
	Body struct {
		Token string `json:"token"`
	}
}

type verifyOutput struct {
	Body struct{}
}

type refreshInput struct {
	Body struct {
		Refresh string `json:"refresh"`
	}
}

type refreshOutput struct {
	Body AccessResponse
}

// AccessResponse is the refresh answer. The refresh token is not rotated.
type AccessResponse struct {
	Access string `json:"access"`
}

type meInput struct{}

type meOutput struct {
	Body point.User
}
