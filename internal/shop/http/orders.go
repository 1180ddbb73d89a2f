package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

// OrderHandler covers order placement, listing and fulfilment.
type OrderHandler struct {
	OrderService *service.OrderService
}

func orderResponse(o domain.OrderWithItems) shopsdk.OrderResponse {
	items := make([]shopsdk.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, shopsdk.OrderItemResponse{
			ProductID: item.ProductID,
			Count:     item.Count,
		})
	}
	return shopsdk.OrderResponse{
		ID:            o.Order.ID,
		UserID:        o.Order.UserID,
		AmountCharged: o.Order.AmountCharged,
		Status:        string(o.Order.Status),
		OrderPlaced:   o.Order.OrderPlaced,
		Items:         items,
	}
}

// HandleCreate handles POST /v1/orders
//
//	@Summary		Place an order
//	@Description	The charge amount is computed from current catalog prices at this moment and never changes afterwards.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.OrderCreateRequest	true	"Order lines"
//	@Success		201		{object}	shopsdk.OrderResponse
//	@Failure		400		{object}	shopsdk.ErrorResponse	"Empty order, unknown product or amount overflow"
//	@Router			/v1/orders [post].
func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var req shopsdk.OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{ProductID: item.ProductID, Count: item.Count})
	}

	order, err := h.OrderService.Create(ctx, actor.UserID, items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrUnknownProduct),
			errors.Is(err, service.ErrAmountOverflow):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_order", err.Error())
		default:
			slogx.FromContext(ctx).Error("failed to create order", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, orderResponse(order))
}

// HandleList handles GET /v1/orders
//
//	@Summary		List orders
//	@Description	Customers see their own orders; administrators see all, optionally filtered by user_id and status.
//	@Tags			Orders
//	@Produce		json
//	@Param			user_id	query	string	false	"Filter by user (administrator)"
//	@Param			status	query	string	false	"Filter by status (administrator)"
//	@Success		200		{array}	shopsdk.OrderResponse
//	@Router			/v1/orders [get].
func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	var (
		orders []domain.OrderWithItems
		err    error
	)
	if actor.Role == domain.RoleAdministrator {
		orders, err = h.OrderService.ListAll(ctx, domain.OrderSearch{
			UserID: r.URL.Query().Get("user_id"),
			Status: domain.OrderStatus(r.URL.Query().Get("status")),
		})
	} else {
		orders, err = h.OrderService.ListMine(ctx, actor.UserID)
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list orders", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	out := make([]shopsdk.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse(o))
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/orders/{id}
//
//	@Summary	Fetch one order
//	@Tags		Orders
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	shopsdk.OrderResponse
//	@Failure	403	{object}	shopsdk.ErrorResponse	"Not the owner"
//	@Failure	404	{object}	shopsdk.ErrorResponse	"Unknown order"
//	@Router		/v1/orders/{id} [get].
func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	order, err := h.OrderService.Get(ctx, actor, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown order")
		case errors.Is(err, service.ErrOrderForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Not allowed")
		default:
			slogx.FromContext(ctx).Error("failed to load order", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, orderResponse(order))
}

// HandleFulfil handles POST /v1/orders/{id}/fulfil
//
//	@Summary		Mark a confirmed order as fulfilled (administrator)
//	@Description	Only confirmed orders can be fulfilled; fulfilled is terminal.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	shopsdk.OrderResponse
//	@Failure		404	{object}	shopsdk.ErrorResponse	"Unknown order"
//	@Failure		409	{object}	shopsdk.ErrorResponse	"Order not confirmed"
//	@Router			/v1/orders/{id}/fulfil [post].
func (h *OrderHandler) HandleFulfil(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.OrderService.Fulfil(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown order")
		case errors.Is(err, service.ErrInvalidStateTransition):
			httpx.WriteError(w, http.StatusConflict, "invalid_state", "Order is not confirmed")
		default:
			slogx.FromContext(ctx).Error("failed to fulfil order", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, orderResponse(order))
}
