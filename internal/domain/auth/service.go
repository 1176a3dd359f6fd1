package auth

import (
	"context"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	ChangePassword(ctx context.Context, actor user.Actor, req ChangePasswordRequest) error
	// ResetPassword sets the employee's password back to their CIN and forces a
	// change on next login.
	ResetPassword(ctx context.Context, actor user.Actor, req ResetPasswordRequest) error
}
