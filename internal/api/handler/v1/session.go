package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cueclub/venue-api/internal/api/handler/v1/request"
	"github.com/cueclub/venue-api/internal/api/handler/v1/response"
	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/service"
)

type SessionService interface {
	OpenSession(ctx context.Context, tableID uint, inputs []service.PlayerInput, training bool) (domain.Session, error)
	JoinSession(ctx context.Context, sessionID uint, input service.PlayerInput) (domain.SessionPlayer, error)
	LeaveSession(ctx context.Context, sessionID, playerID uint) (service.LeaveResult, error)
	AddConsumption(ctx context.Context, sessionID uint, inputs []service.ConsumptionInput, targetMemberID *uint, actorUserID uint) error
	PreviewCost(ctx context.Context, sessionID uint) (service.PreviewResult, error)
	CloseSession(ctx context.Context, sessionID uint, payments []domain.Payment) (service.CloseResult, error)
	UpdateGameState(ctx context.Context, sessionID uint, state json.RawMessage) error
	GetSession(ctx context.Context, sessionID uint) (domain.Session, error)
}

type SessionHandler struct {
	svc  SessionService
	uSvc UserService
}

func NewSessionHandler(svc SessionService, uSvc UserService) *SessionHandler {
	return &SessionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleOpenSession godoc
// @Summary      Open a session on a table
// @Description  Claims the table, freezes per-player hourly rates and starts the clock.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        tableID  path      int                         true  "table ID"
// @Param        request  body      request.OpenSessionRequest  true  "request body"
// @Success      201      {object}  domain.Session
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tables/{tableID}/sessions [post]
// @Security     BearerAuth
func (h *SessionHandler) HandleOpenSession(ctx *gin.Context) {
	tableID, ok := parseUintParam(ctx, "tableID")
	if !ok {
		return
	}

	var req request.OpenSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	inputs := make([]service.PlayerInput, len(req.Players))
	for i, p := range req.Players {
		inputs[i] = service.PlayerInput{
			MemberID:  p.MemberID,
			GuestName: p.GuestName,
		}
	}

	session, err := h.svc.OpenSession(ctx.Request.Context(), tableID, inputs, req.Training)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTableNotFound):
			response.RenderErr(ctx, response.ErrNotFound("table", "tableID", tableID))
		case errors.Is(err, service.ErrMemberNotFound):
			response.RenderErr(ctx, response.ErrNotFound("member", "tableID", tableID))
		case errors.Is(err, service.ErrTableOccupied):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTableOccupied))
		case errors.Is(err, service.ErrShiftClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftClosed))
		case errors.Is(err, service.ErrNotEnoughPlayers):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrNotEnoughPlayers))
		default:
			err = fmt.Errorf("v1.HandleOpenSession -> h.svc.OpenSession -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, session)
}

// HandleGetSession godoc
// @Summary      Get one session
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "session ID"
// @Success      200        {object}  domain.Session
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /sessions/{sessionID} [get]
// @Security     BearerAuth
func (h *SessionHandler) HandleGetSession(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "sessionID")
	if !ok {
		return
	}

	session, err := h.svc.GetSession(ctx.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("session", "sessionID", sessionID))

			return
		}

		err = fmt.Errorf("v1.HandleGetSession -> h.svc.GetSession -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, session)
}

// HandleJoinSession godoc
// @Summary      Join a player into a per-player session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                         true  "session ID"
// @Param        request    body      request.JoinSessionRequest  true  "request body"
// @Success      201        {object}  domain.SessionPlayer
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      422        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /sessions/{sessionID}/players [post]
// @Security     BearerAuth
func (h *SessionHandler) HandleJoinSession(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "sessionID")
	if !ok {
		return
	}

	var req request.JoinSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	player, err := h.svc.JoinSession(ctx.Request.Context(), sessionID, service.PlayerInput{
		MemberID:  req.MemberID,
		GuestName: req.GuestName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "sessionID", sessionID))
		case errors.Is(err, service.ErrMemberNotFound):
			response.RenderErr(ctx, response.ErrNotFound("member", "sessionID", sessionID))
		case errors.Is(err, service.ErrSessionNotActive):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSessionNotActive))
		case errors.Is(err, service.ErrShiftClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftClosed))
		case errors.Is(err, service.ErrNotPerPlayerBilling):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrNotPerPlayerBilling))
		default:
			err = fmt.Errorf("v1.HandleJoinSession -> h.svc.JoinSession -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, player)
}

// HandleLeaveSession godoc
// @Summary      Stamp a player's exit and cost
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "session ID"
// @Param        playerID   path      int  true  "session player ID"
// @Success      200        {object}  response.LeaveSessionResponse
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /sessions/{sessionID}/players/{playerID}/leave [post]
// @Security     BearerAuth
func (h *SessionHandler) HandleLeaveSession(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "sessionID")
	if !ok {
		return
	}
	playerID, ok := parseUintParam(ctx, "playerID")
	if !ok {
		return
	}

	result, err := h.svc.LeaveSession(ctx.Request.Context(), sessionID, playerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlayerNotFound):
			response.RenderErr(ctx, response.ErrNotFound("player", "playerID", playerID))
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "sessionID", sessionID))
		case errors.Is(err, service.ErrPlayerAlreadyLeft):
			response.RenderErr(ctx, response.ErrConflict(service.ErrPlayerAlreadyLeft))
		case errors.Is(err, service.ErrSessionNotActive):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSessionNotActive))
		case errors.Is(err, service.ErrShiftClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftClosed))
		default:
			err = fmt.Errorf("v1.HandleLeaveSession -> h.svc.LeaveSession -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.LeaveSessionResponse{
		Player:              result.Player,
		Cost:                result.Cost,
		BelowMinimumPlayers: result.BelowMinimumPlayers,
	})
}

// HandleAddConsumption godoc
// @Summary      Book products onto a session
// @Description  Deducts stock and either charges the target member's account or adds pending orders.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                            true  "session ID"
// @Param        request    body      request.AddConsumptionRequest  true  "request body"
// @Success      204        "no content"
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /sessions/{sessionID}/consumptions [post]
// @Security     BearerAuth
func (h *SessionHandler) HandleAddConsumption(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	sessionID, ok := parseUintParam(ctx, "sessionID")
	if !ok {
		return
	}

	var req request.AddConsumptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	inputs := make([]service.ConsumptionInput, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = service.ConsumptionInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			SessionPlayerID: item.SessionPlayerID,
		}
	}

	err := h.svc.AddConsumption(ctx.Request.Context(), sessionID, inputs, req.TargetMemberID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "sessionID", sessionID))
		case errors.Is(err, service.ErrProductNotFound):
			response.RenderErr(ctx, response.ErrNotFound("product", "sessionID", sessionID))
		case errors.Is(err, service.ErrMemberNotFound):
			response.RenderErr(ctx, response.ErrNotFound("member", "sessionID", sessionID))
		case errors.Is(err, service.ErrSessionNotActive):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSessionNotActive))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInsufficientStock))
		case errors.Is(err, service.ErrShiftClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftClosed))
		default:
			err = fmt.Errorf("v1.HandleAddConsumption -> h.svc.AddConsumption -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandlePreviewCost godoc
// @Summary      Preview the current cost of a session
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "session ID"
// @Success      200        {object}  response.PreviewResponse
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /sessions/{sessionID}/preview [get]
// @Security     BearerAuth
func (h *SessionHandler) HandlePreviewCost(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "sessionID")
	if !ok {
		return
	}

	result, err := h.svc.PreviewCost(ctx.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("session", "sessionID", sessionID))

			return
		}

		err = fmt.Errorf("v1.HandlePreviewCost -> h.svc.PreviewCost -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.PreviewResponse{
		Session:        result.Session,
		Breakdown:      result.Breakdown,
		PendingOrders:  result.Session.Orders,
		AccountCharges: result.AccountCharges,
	})
}

// HandleCloseSession godoc
// @Summary      Settle and close a session
// @Description  Recomputes the total from fresh state, validates the payment split and frees the table.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                          true  "session ID"
// @Param        request    body      request.CloseSessionRequest  true  "request body"
// @Success      200        {object}  response.CloseSessionResponse
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      422        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /sessions/{sessionID}/close [post]
// @Security     BearerAuth
func (h *SessionHandler) HandleCloseSession(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "sessionID")
	if !ok {
		return
	}

	var req request.CloseSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	payments := make([]domain.Payment, len(req.Payments))
	for i, p := range req.Payments {
		payments[i] = domain.Payment{
			Amount:   p.Amount,
			Method:   domain.PaymentMethod(p.Method),
			MemberID: p.MemberID,
		}
	}

	result, err := h.svc.CloseSession(ctx.Request.Context(), sessionID, payments)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "sessionID", sessionID))
		case errors.Is(err, service.ErrMemberNotFound):
			response.RenderErr(ctx, response.ErrNotFound("member", "sessionID", sessionID))
		case errors.Is(err, service.ErrSessionNotActive):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSessionNotActive))
		case errors.Is(err, service.ErrShiftClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftClosed))
		case errors.Is(err, domain.ErrPaymentMismatch),
			errors.Is(err, domain.ErrMissingAccountHolder),
			errors.Is(err, domain.ErrInvalidPaymentAmount),
			errors.Is(err, domain.ErrInvalidPaymentMethod):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.HandleCloseSession -> h.svc.CloseSession -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.CloseSessionResponse{
		Session:   result.Session,
		Breakdown: result.Breakdown,
		Payments:  result.Payments,
	})
}

// HandleUpdateGameState godoc
// @Summary      Store the scoreboard blob of a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                             true  "session ID"
// @Param        request    body      request.UpdateGameStateRequest  true  "request body"
// @Success      204        "no content"
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /sessions/{sessionID}/game-state [put]
// @Security     BearerAuth
func (h *SessionHandler) HandleUpdateGameState(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "sessionID")
	if !ok {
		return
	}

	var req request.UpdateGameStateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err := h.svc.UpdateGameState(ctx.Request.Context(), sessionID, req.GameState)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "sessionID", sessionID))
		case errors.Is(err, service.ErrSessionNotActive):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSessionNotActive))
		default:
			err = fmt.Errorf("v1.HandleUpdateGameState -> h.svc.UpdateGameState -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v %q", name, raw)))

		return 0, false
	}

	return uint(value), true
}
