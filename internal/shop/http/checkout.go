package http

import (
	"errors"
	"net/http"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/shopsdk"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

// CheckoutHandler starts payment for an order and reports its progress.
type CheckoutHandler struct {
	CheckoutService *service.CheckoutService
}

func bareOrderResponse(o domain.Order) shopsdk.OrderResponse {
	return shopsdk.OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		AmountCharged: o.AmountCharged,
		Status:        string(o.Status),
		OrderPlaced:   o.OrderPlaced,
	}
}

// HandleConfig handles GET /v1/checkout
//
//	@Summary		Describe the payment setup
//	@Description	Tells the client whether checkout involves a card step, and with which publishable key.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	shopsdk.PaymentConfigResponse
//	@Router			/v1/checkout [get].
func (h *CheckoutHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := shopsdk.PaymentConfigResponse{
		PaymentEnabled: h.CheckoutService.Gateway.Enabled(),
	}
	if cfg.PaymentEnabled {
		cfg.PublishableKey = h.CheckoutService.Gateway.PublishableKey()
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, cfg)
}

// HandleBegin handles POST /v1/orders/{id}/checkout
//
//	@Summary		Start paying for an order
//	@Description	Returns provider payment details for the browser, or confirms the order immediately when no payment provider is configured. Requests for orders the caller does not own return 403 whether or not the order exists.
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	shopsdk.CheckoutResponse
//	@Failure		403	{object}	shopsdk.ErrorResponse	"Order not accessible"
//	@Failure		409	{object}	shopsdk.ErrorResponse	"Order not awaiting payment"
//	@Router			/v1/orders/{id}/checkout [post].
func (h *CheckoutHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	result, err := h.CheckoutService.Begin(ctx, actor.UserID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Order not accessible")
		case errors.Is(err, service.ErrOrderNotPayable):
			httpx.WriteError(w, http.StatusConflict, "invalid_state", "Order is not awaiting payment")
		default:
			slogx.FromContext(ctx).Error("failed to start checkout", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, shopsdk.CheckoutResponse{
		Order:           bareOrderResponse(result.Order),
		PaymentRequired: result.PaymentRequired,
		PublishableKey:  result.PublishableKey,
		ClientSecret:    result.ClientSecret,
	})
}

// HandleStatus handles GET /v1/orders/{id}/checkout
//
//	@Summary		Poll payment progress for an order
//	@Description	Same ownership rule as starting checkout: 403 whether the order is someone else's or does not exist.
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	shopsdk.OrderResponse
//	@Failure		403	{object}	shopsdk.ErrorResponse	"Order not accessible"
//	@Router			/v1/orders/{id}/checkout [get].
func (h *CheckoutHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid", "No active session")
		return
	}

	order, err := h.CheckoutService.Status(ctx, actor.UserID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrCheckoutForbidden) {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Order not accessible")
			return
		}
		slogx.FromContext(ctx).Error("failed to load checkout status", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bareOrderResponse(order))
}
