package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cueclub/venue-api/internal/api/handler/v1/request"
	"github.com/cueclub/venue-api/internal/api/handler/v1/response"
	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/service"
)

type ShiftService interface {
	OpenShift(ctx context.Context, openedByID uint, initialAmount int) (domain.Shift, error)
	CloseShift(ctx context.Context, closedByID uint) (domain.Shift, error)
	CurrentShift(ctx context.Context) (domain.Shift, error)
}

type ShiftHandler struct {
	svc  ShiftService
	uSvc UserService
}

func NewShiftHandler(svc ShiftService, uSvc UserService) *ShiftHandler {
	return &ShiftHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleOpenShift godoc
// @Summary      Open the cash shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        request  body      request.OpenShiftRequest  true  "request body"
// @Success      201      {object}  domain.Shift
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /shifts/open [post]
// @Security     BearerAuth
func (h *ShiftHandler) HandleOpenShift(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.OpenShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	shift, err := h.svc.OpenShift(ctx.Request.Context(), user.ID, req.InitialAmount)
	if err != nil {
		if errors.Is(err, service.ErrShiftAlreadyOpen) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftAlreadyOpen))

			return
		}

		err = fmt.Errorf("v1.HandleOpenShift -> h.svc.OpenShift -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, shift)
}

// HandleCloseShift godoc
// @Summary      Close the open cash shift
// @Tags         shifts
// @Produce      json
// @Success      200  {object}  domain.Shift
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /shifts/current/close [post]
// @Security     BearerAuth
func (h *ShiftHandler) HandleCloseShift(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	shift, err := h.svc.CloseShift(ctx.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrShiftClosed) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftClosed))

			return
		}

		err = fmt.Errorf("v1.HandleCloseShift -> h.svc.CloseShift -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, shift)
}

// HandleCurrentShift godoc
// @Summary      Get the open cash shift
// @Tags         shifts
// @Produce      json
// @Success      200  {object}  domain.Shift
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /shifts/current [get]
// @Security     BearerAuth
func (h *ShiftHandler) HandleCurrentShift(ctx *gin.Context) {
	shift, err := h.svc.CurrentShift(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrShiftClosed) {
			response.RenderErr(ctx, response.ErrNotFound("shift", "status", "OPEN"))

			return
		}

		err = fmt.Errorf("v1.HandleCurrentShift -> h.svc.CurrentShift -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, shift)
}
