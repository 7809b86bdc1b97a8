package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Anthon002/NYSCAttendance/internal/api/handler/v1/request"
	"github.com/Anthon002/NYSCAttendance/internal/api/handler/v1/response"
	"github.com/Anthon002/NYSCAttendance/internal/api/middleware"
	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/service"
)

var errInvalidUserID = errors.New("invalid user ID")

type TeamService interface {
	AddTeamMember(ctx context.Context, perms domain.Permissions, input service.AddTeamMemberInput) (domain.User, error)
	ListTeamMembers(ctx context.Context, perms domain.Permissions, search string, page, pageSize int) ([]service.TeamMember, int64, error)
	UpdatePermissions(ctx context.Context, perms domain.Permissions, userID int64, assign, unassign []string) error
	RemoveTeamMember(ctx context.Context, perms domain.Permissions, userID int64) error
}

type TeamHandler struct {
	svc TeamService
}

func NewTeamHandler(svc TeamService) *TeamHandler {
	return &TeamHandler{
		svc: svc,
	}
}

// HandleAddTeamMember invites an admin; credentials go out by email.
func (h *TeamHandler) HandleAddTeamMember(ctx *gin.Context) {
	var req request.AddTeamMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	perms := middleware.PermissionsFromContext(ctx)
	user, err := h.svc.AddTeamMember(ctx.Request.Context(), perms, service.AddTeamMemberInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Permissions: req.Permissions,
	})
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) ||
			errors.Is(err, service.ErrUserEmailExists) ||
			errors.Is(err, service.ErrInvalidPermission) ||
			errors.Is(err, service.ErrNotificationFailed) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleAddTeamMember -> h.svc.AddTeamMember -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "team member added", user)
}

func (h *TeamHandler) HandleListTeamMembers(ctx *gin.Context) {
	perms := middleware.PermissionsFromContext(ctx)
	page, pageSize := parsePagination(ctx)

	members, total, err := h.svc.ListTeamMembers(ctx.Request.Context(), perms, ctx.Query("search"), page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleListTeamMembers -> h.svc.ListTeamMembers -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "team members", response.NewPaginated(members, page, pageSize, total))
}

func (h *TeamHandler) HandleUpdatePermissions(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderFailure(ctx, errInvalidUserID)

		return
	}

	var req request.UpdatePermissionsRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	perms := middleware.PermissionsFromContext(ctx)
	err = h.svc.UpdatePermissions(ctx.Request.Context(), perms, userID, req.Assign, req.Unassign)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) ||
			errors.Is(err, service.ErrUserNotFound) ||
			errors.Is(err, service.ErrUserImmutable) ||
			errors.Is(err, service.ErrInvalidPermission) ||
			errors.Is(err, service.ErrPermissionNotHeld) ||
			errors.Is(err, service.ErrPermissionAlreadyHeld) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleUpdatePermissions -> h.svc.UpdatePermissions -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "permissions updated", struct{}{})
}

func (h *TeamHandler) HandleRemoveTeamMember(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderFailure(ctx, errInvalidUserID)

		return
	}

	perms := middleware.PermissionsFromContext(ctx)
	err = h.svc.RemoveTeamMember(ctx.Request.Context(), perms, userID)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) ||
			errors.Is(err, service.ErrUserNotFound) ||
			errors.Is(err, service.ErrUserImmutable) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleRemoveTeamMember -> h.svc.RemoveTeamMember -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "team member removed", struct{}{})
}
