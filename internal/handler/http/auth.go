package http

import (
	"net/http"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &authHandlerImpl{authService: authService}
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req, "Login") {
		return
	}

	token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if token.PasswordChangeRequired {
		response.SuccessWithMessage(w, "Login successful, password change required", token)
		return
	}
	response.SuccessWithMessage(w, "Login successful", token)
}

// ChangePassword implements AuthHandler.
func (h *authHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req auth.ChangePasswordRequest
	if !decodeJSON(w, r, &req, "ChangePassword") {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), actor, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password changed successfully", nil)
}

// ResetPassword implements AuthHandler.
func (h *authHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req auth.ResetPasswordRequest
	if !decodeJSON(w, r, &req, "ResetPassword") {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), actor, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password reset to the employee's CIN", nil)
}
