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

type TableService interface {
	CreateTable(ctx context.Context, table domain.Table) (domain.Table, error)
	UpdateTable(ctx context.Context, table domain.Table) (domain.Table, error)
	UpdateTableStatus(ctx context.Context, id uint, status domain.TableStatus) error
	GetTable(ctx context.Context, id uint) (domain.Table, error)
	ListTables(ctx context.Context) ([]domain.Table, error)
}

type TableHandler struct {
	svc  TableService
	uSvc UserService
}

func NewTableHandler(svc TableService, uSvc UserService) *TableHandler {
	return &TableHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListTables godoc
// @Summary      List all tables
// @Tags         tables
// @Produce      json
// @Success      200  {array}   domain.Table
// @Failure      500  {object}  response.Err
// @Router       /tables [get]
// @Security     BearerAuth
func (h *TableHandler) HandleListTables(ctx *gin.Context) {
	tables, err := h.svc.ListTables(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTables -> h.svc.ListTables -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, tables)
}

// HandleCreateTable godoc
// @Summary      Create a table
// @Description  Admin only.
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTableRequest  true  "request body"
// @Success      201      {object}  domain.Table
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tables [post]
// @Security     BearerAuth
func (h *TableHandler) HandleCreateTable(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	if user.Role != "admin" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))

		return
	}

	var req request.CreateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	table, err := h.svc.CreateTable(ctx.Request.Context(), domain.Table{
		Name:        req.Name,
		Type:        domain.TableType(req.Type),
		PriceMember: req.PriceMember,
		PriceClient: req.PriceClient,
	})
	if err != nil {
		if errors.Is(err, service.ErrTableNameExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrTableNameExists))

			return
		}

		err = fmt.Errorf("v1.HandleCreateTable -> h.svc.CreateTable -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, table)
}

// HandleUpdateTable godoc
// @Summary      Update a table's name, type, prices or status
// @Description  Admin only. Status changes are limited to non-billing states.
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        tableID  path      int                         true  "table ID"
// @Param        request  body      request.UpdateTableRequest  true  "request body"
// @Success      200      {object}  domain.Table
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tables/{tableID} [put]
// @Security     BearerAuth
func (h *TableHandler) HandleUpdateTable(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	if user.Role != "admin" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))

		return
	}

	tableID, ok := parseUintParam(ctx, "tableID")
	if !ok {
		return
	}

	var req request.UpdateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	table, err := h.svc.UpdateTable(ctx.Request.Context(), domain.Table{
		ID:          tableID,
		Name:        req.Name,
		Type:        domain.TableType(req.Type),
		PriceMember: req.PriceMember,
		PriceClient: req.PriceClient,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTableNotFound):
			response.RenderErr(ctx, response.ErrNotFound("table", "tableID", tableID))
		case errors.Is(err, service.ErrTableNameExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTableNameExists))
		default:
			err = fmt.Errorf("v1.HandleUpdateTable -> h.svc.UpdateTable -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	if req.Status != "" {
		err = h.svc.UpdateTableStatus(ctx.Request.Context(), tableID, domain.TableStatus(req.Status))
		if err != nil {
			if errors.Is(err, service.ErrTableOccupied) {
				response.RenderErr(ctx, response.ErrConflict(service.ErrTableOccupied))

				return
			}

			err = fmt.Errorf("v1.HandleUpdateTable -> h.svc.UpdateTableStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))

			return
		}
		table.Status = domain.TableStatus(req.Status)
	}

	ctx.JSON(http.StatusOK, table)
}
