package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employee.EmployeeRepository
	jwt.Service
	bcryptCost int
}

func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		bcryptCost:         bcrypt.DefaultCost,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !emp.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(jwt.AccessClaims{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Role:       emp.Role,
		FirstLogin: emp.FirstLogin,
	})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("employee logged in", "employee_id", emp.ID, "first_login", emp.FirstLogin)

	return auth.TokenResponse{
		AccessToken:            token,
		AccessTokenExpiresIn:   expiresAt,
		PasswordChangeRequired: emp.FirstLogin,
		Employee: auth.LoginEmployee{
			ID:        emp.ID,
			LastName:  emp.LastName,
			FirstName: emp.FirstName,
			Email:     emp.Email,
			Role:      string(emp.Role),
		},
	}, nil
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, actor user.Actor, req auth.ChangePasswordRequest) error {
	if actor.EmployeeID == "" {
		return user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.OldPassword)); err != nil {
		return auth.ErrWrongOldPassword
	}

	hashed, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.EmployeeRepository.UpdatePassword(ctx, emp.ID, hashed, false); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password changed", "employee_id", emp.ID)
	return nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, actor user.Actor, req auth.ResetPasswordRequest) error {
	if !user.HasPermission(actor.Role, user.PermissionEmployeeResetPassword) {
		return user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	hashed, err := a.hashPassword(emp.CIN)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.EmployeeRepository.UpdatePassword(ctx, emp.ID, hashed, true); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	slog.Info("password reset", "employee_id", emp.ID, "reset_by", actor.EmployeeID)
	return nil
}
