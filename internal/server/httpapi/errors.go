package httpapi

import (
	"errors"

	"github.com/delcom/marketplace/internal/common"
)

func loginErrorMessage(err error) string {
	if errors.Is(err, common.ErrInvalidCredentials) {
		return "Invalid email or password"
	}
	return "Internal server error"
}

func registerErrorMessage(err error) string {
	if errors.Is(err, common.ErrEmailAlreadyRegistered) {
		return "Email is already registered"
	}
	return "Internal server error"
}

func productErrorStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return 404
	case errors.Is(err, common.ErrNotOwner):
		return 403
	default:
		return 500
	}
}
