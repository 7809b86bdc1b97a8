package v1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anthon002/NYSCAttendance/internal/api/handler/v1/request"
	"github.com/Anthon002/NYSCAttendance/internal/api/handler/v1/response"
	"github.com/Anthon002/NYSCAttendance/internal/config"
	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/pkg/jwthelper"
	"github.com/Anthon002/NYSCAttendance/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ConfirmLogin(ctx context.Context, identifier, code string) (domain.User, domain.Permissions, error)
	InitiatePasswordReset(ctx context.Context, email string) (string, error)
	CompletePasswordReset(ctx context.Context, identifier, code, password, confirmPassword string) error
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin verifies credentials and emails an OTP. The response carries the
// identifier the client must echo back when confirming the code.
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	identifier, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) ||
			errors.Is(err, service.ErrWrongPassword) ||
			errors.Is(err, service.ErrNotificationFailed) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "an OTP has been sent to your email", response.OTPIssued{
		Identifier: identifier,
	})
}

// HandleConfirmLogin redeems the OTP and mints the session token.
func (h *AuthHandler) HandleConfirmLogin(ctx *gin.Context) {
	var req request.ConfirmLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	user, perms, err := h.svc.ConfirmLogin(ctx.Request.Context(), req.Identifier, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrOTPInvalid) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleConfirmLogin -> h.svc.ConfirmLogin -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	validity := time.Duration(h.conf.JWTValidityHours) * time.Hour
	token, expiresAt, err := jwthelper.GenerateToken(
		[]byte(h.conf.JWTSigningKey), h.conf.JWTIssuer, validity,
		user.ID, user.Email, perms, domain.AdminPolicyCode,
	)
	if err != nil {
		err = fmt.Errorf("v1.HandleConfirmLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "login successful", response.LoginCompleted{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

func (h *AuthHandler) HandleInitiatePasswordReset(ctx *gin.Context) {
	var req request.InitiatePasswordResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	identifier, err := h.svc.InitiatePasswordReset(ctx.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) ||
			errors.Is(err, service.ErrNotificationFailed) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleInitiatePasswordReset -> h.svc.InitiatePasswordReset -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "an OTP has been sent to your email", response.OTPIssued{
		Identifier: identifier,
	})
}

func (h *AuthHandler) HandleCompletePasswordReset(ctx *gin.Context) {
	var req request.CompletePasswordResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	err := h.svc.CompletePasswordReset(ctx.Request.Context(), req.Identifier, req.Code, req.Password, req.ConfirmPassword)
	if err != nil {
		if errors.Is(err, service.ErrOTPInvalid) || errors.Is(err, service.ErrPasswordMismatch) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleCompletePasswordReset -> h.svc.CompletePasswordReset -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "your password has been reset", struct{}{})
}
