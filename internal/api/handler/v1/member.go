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

type MemberService interface {
	GetMember(ctx context.Context, id uint) (domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	PayDebt(ctx context.Context, memberID uint, amount int, method domain.PaymentMethod) (domain.Member, error)
}

type MemberHandler struct {
	svc MemberService
}

func NewMemberHandler(svc MemberService) *MemberHandler {
	return &MemberHandler{
		svc: svc,
	}
}

// HandleListMembers godoc
// @Summary      List all members
// @Tags         members
// @Produce      json
// @Success      200  {array}   domain.Member
// @Failure      500  {object}  response.Err
// @Router       /members [get]
// @Security     BearerAuth
func (h *MemberHandler) HandleListMembers(ctx *gin.Context) {
	members, err := h.svc.ListMembers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListMembers -> h.svc.ListMembers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, members)
}

// HandleGetMember godoc
// @Summary      Get one member
// @Tags         members
// @Produce      json
// @Param        memberID  path      int  true  "member ID"
// @Success      200       {object}  domain.Member
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /members/{memberID} [get]
// @Security     BearerAuth
func (h *MemberHandler) HandleGetMember(ctx *gin.Context) {
	memberID, ok := parseUintParam(ctx, "memberID")
	if !ok {
		return
	}

	member, err := h.svc.GetMember(ctx.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("member", "memberID", memberID))

			return
		}

		err = fmt.Errorf("v1.HandleGetMember -> h.svc.GetMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, member)
}

// HandlePayDebt godoc
// @Summary      Collect a payment against a member's on-account debt
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        memberID  path      int                     true  "member ID"
// @Param        request   body      request.PayDebtRequest  true  "request body"
// @Success      200       {object}  domain.Member
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      422       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /members/{memberID}/debt-payments [post]
// @Security     BearerAuth
func (h *MemberHandler) HandlePayDebt(ctx *gin.Context) {
	memberID, ok := parseUintParam(ctx, "memberID")
	if !ok {
		return
	}

	var req request.PayDebtRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	member, err := h.svc.PayDebt(ctx.Request.Context(), memberID, req.Amount, domain.PaymentMethod(req.Method))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			response.RenderErr(ctx, response.ErrNotFound("member", "memberID", memberID))
		case errors.Is(err, service.ErrShiftClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrShiftClosed))
		case errors.Is(err, service.ErrInvalidDebtPayment),
			errors.Is(err, domain.ErrInvalidPaymentAmount),
			errors.Is(err, domain.ErrInvalidPaymentMethod):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.HandlePayDebt -> h.svc.PayDebt -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, member)
}
