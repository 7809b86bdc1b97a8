package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anthon002/NYSCAttendance/internal/api/handler/v1/request"
	"github.com/Anthon002/NYSCAttendance/internal/api/handler/v1/response"
	"github.com/Anthon002/NYSCAttendance/internal/api/middleware"
	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/service"
)

var (
	errInvalidLocationID = errors.New("invalid location ID")
	errInvalidDateFilter = errors.New("dates must be in YYYY-MM-DD format")
	errInvalidFilter     = errors.New("invalid filter value")
)

type AttendanceService interface {
	CheckIn(ctx context.Context, token string, input service.CheckInInput) (domain.Attendance, error)
	GetRecord(ctx context.Context, identifier string) (domain.Attendance, error)
	ReserveSpot(ctx context.Context, perms domain.Permissions, locationID int64, input service.ReserveSpotInput) (domain.Attendance, error)
	List(ctx context.Context, locationID int64, filter domain.AttendanceFilter, page, pageSize int) ([]domain.Attendance, int64, error)
	Export(ctx context.Context, locationID int64, filter domain.AttendanceFilter) ([]byte, error)
}

type AttendanceHandler struct {
	svc AttendanceService
}

func NewAttendanceHandler(svc AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		svc: svc,
	}
}

// HandleCheckIn records attendance for the location behind the token in the
// URL. Submitting the same identifier twice returns the original record.
func (h *AttendanceHandler) HandleCheckIn(ctx *gin.Context) {
	var req request.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	attendance, err := h.svc.CheckIn(ctx.Request.Context(), ctx.Param("token"), service.CheckInInput{
		Identifier: req.Identifier,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		StateCode:  req.StateCode,
		Batch:      domain.Batch(req.Batch),
		CDS:        domain.CDS(req.CDS),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		var tooFar *service.TooFarError
		if errors.As(err, &tooFar) ||
			errors.Is(err, service.ErrLocationNotFound) ||
			isCheckInValidationErr(err) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleCheckIn -> h.svc.CheckIn -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "your attendance has been recorded", attendance)
}

// HandleGetRecord returns today's record for an identifier, if one exists.
func (h *AttendanceHandler) HandleGetRecord(ctx *gin.Context) {
	attendance, err := h.svc.GetRecord(ctx.Request.Context(), ctx.Param("identifier"))
	if err != nil {
		if errors.Is(err, service.ErrAttendanceNotFound) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleGetRecord -> h.svc.GetRecord -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "attendance record found", attendance)
}

func (h *AttendanceHandler) HandleReserveSpot(ctx *gin.Context) {
	locationID, err := strconv.ParseInt(ctx.Param("locationID"), 10, 64)
	if err != nil {
		response.RenderFailure(ctx, errInvalidLocationID)

		return
	}

	var req request.ReserveSpotRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	perms := middleware.PermissionsFromContext(ctx)
	attendance, err := h.svc.ReserveSpot(ctx.Request.Context(), perms, locationID, service.ReserveSpotInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		StateCode:  req.StateCode,
		Batch:      domain.Batch(req.Batch),
		CDS:        domain.CDS(req.CDS),
	})
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) ||
			errors.Is(err, service.ErrLocationNotFound) ||
			isCheckInValidationErr(err) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleReserveSpot -> h.svc.ReserveSpot -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "spot reserved", attendance)
}

func (h *AttendanceHandler) HandleListAttendances(ctx *gin.Context) {
	locationID, err := strconv.ParseInt(ctx.Param("locationID"), 10, 64)
	if err != nil {
		response.RenderFailure(ctx, errInvalidLocationID)

		return
	}

	filter, err := parseAttendanceFilter(ctx)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	page, pageSize := parsePagination(ctx)
	records, total, err := h.svc.List(ctx.Request.Context(), locationID, filter, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleListAttendances -> h.svc.List -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	response.RenderOK(ctx, "attendance records", response.NewPaginated(records, page, pageSize, total))
}

// HandleExportAttendances streams the matching records as a CSV download.
func (h *AttendanceHandler) HandleExportAttendances(ctx *gin.Context) {
	locationID, err := strconv.ParseInt(ctx.Param("locationID"), 10, 64)
	if err != nil {
		response.RenderFailure(ctx, errInvalidLocationID)

		return
	}

	filter, err := parseAttendanceFilter(ctx)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	blob, err := h.svc.Export(ctx.Request.Context(), locationID, filter)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			response.RenderFailure(ctx, err)

			return
		}

		err = fmt.Errorf("v1.HandleExportAttendances -> h.svc.Export -> %w", err)
		response.RenderInternalError(ctx, err)

		return
	}

	filename := fmt.Sprintf("attendances-%v-%v.csv", locationID, time.Now().UTC().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv", blob)
}

func isCheckInValidationErr(err error) bool {
	return errors.Is(err, service.ErrInvalidLatitude) ||
		errors.Is(err, service.ErrInvalidLongitude) ||
		errors.Is(err, service.ErrNameTooLong) ||
		errors.Is(err, service.ErrIdentifierTooLong) ||
		errors.Is(err, service.ErrStateCodeTooLong) ||
		errors.Is(err, service.ErrInvalidBatch) ||
		errors.Is(err, service.ErrInvalidCDS)
}

func parseAttendanceFilter(ctx *gin.Context) (domain.AttendanceFilter, error) {
	filter := domain.AttendanceFilter{
		Search: ctx.Query("search"),
	}

	if v := ctx.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return domain.AttendanceFilter{}, errInvalidDateFilter
		}
		filter.From = &t
	}
	if v := ctx.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return domain.AttendanceFilter{}, errInvalidDateFilter
		}
		filter.To = &t
	}
	if v := ctx.Query("batch"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !domain.Batch(n).Valid() {
			return domain.AttendanceFilter{}, errInvalidFilter
		}
		batch := domain.Batch(n)
		filter.Batch = &batch
	}
	if v := ctx.Query("cds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !domain.CDS(n).Valid() {
			return domain.AttendanceFilter{}, errInvalidFilter
		}
		cds := domain.CDS(n)
		filter.CDS = &cds
	}
	if v := ctx.Query("day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 6 {
			return domain.AttendanceFilter{}, errInvalidFilter
		}
		filter.DayOfWeek = &n
	}

	return filter, nil
}

func parsePagination(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return page, pageSize
}
