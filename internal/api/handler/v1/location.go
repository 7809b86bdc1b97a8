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

type LocationService interface {
	Create(ctx context.Context, perms domain.Permissions, input service.CreateLocationInput) (domain.Location, error)
	Update(ctx context.Context, perms domain.Permissions, id int64, input service.UpdateLocationInput) error
	Get(ctx context.Context, id int64) (domain.Location, error)
	List(ctx context.Context, search string, page, pageSize int) ([]domain.Location, int64, error)
}

type LocationHandler struct {
	svc LocationService
}

func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{
		svc: svc,
	}
}

// HandleCreateLocation registers a check-in location and mints its public
// token.
func (h *LocationHandler) HandleCreateLocation(ctx *gin.Context) {
	var req request.CreateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	perms := middleware.PermissionsFromContext(ctx)
	location, err := h.svc.Create(ctx.Request.Context(), perms, service.CreateLocationInput{
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		OpensAt:      req.OpensAt,
		ClosesAt:     req.ClosesAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) ||
			errors.Is(err, service.ErrLocationExists) ||
			errors.Is(err, service.ErrInvalidSchedule) ||
			errors.Is(err, service.ErrInvalidLatitude) ||
			errors.Is(err, service.ErrInvalidLongitude) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleCreateLocation -> h.svc.Create -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "location created", location)
}

func (h *LocationHandler) HandleUpdateLocation(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("locationID"), 10, 64)
	if err != nil {
		response.RenderFailure(ctx, errInvalidLocationID)

		return
	}

	var req request.UpdateLocationRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	perms := middleware.PermissionsFromContext(ctx)
	err = h.svc.Update(ctx.Request.Context(), perms, id, service.UpdateLocationInput{
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) ||
			errors.Is(err, service.ErrLocationNotFound) ||
			errors.Is(err, service.ErrLocationExists) ||
			errors.Is(err, service.ErrInvalidLatitude) ||
			errors.Is(err, service.ErrInvalidLongitude) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleUpdateLocation -> h.svc.Update -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "location updated", struct{}{})
}

func (h *LocationHandler) HandleGetLocation(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("locationID"), 10, 64)
	if err != nil {
		response.RenderFailure(ctx, errInvalidLocationID)

		return
	}

	location, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleGetLocation -> h.svc.Get -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "location found", location)
}

func (h *LocationHandler) HandleListLocations(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx)
	locations, total, err := h.svc.List(ctx.Request.Context(), ctx.Query("search"), page, pageSize)
	if err != nil {
		err = fmt.Errorf("v1.HandleListLocations -> h.svc.List -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "locations", response.NewPaginated(locations, page, pageSize, total))
}
