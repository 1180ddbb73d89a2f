package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/ledgerlane/storefront/internal/shop/payment"
	"github.com/ledgerlane/storefront/internal/shop/service"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/httpx"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

const maxWebhookBody = 64 << 10

// WebhookHandler receives payment-provider deliveries. It sits outside the
// session middleware entirely; authentication is the provider signature.
type WebhookHandler struct {
	CheckoutService *service.CheckoutService
}

// HandlePayment handles POST /v1/webhook/payment
//
//	@Summary		Payment provider webhook
//	@Description	Verifies the provider signature and applies the event. Deliveries are at-least-once; replays are acknowledged without effect.
//	@Tags			Checkout
//	@Accept			json
//	@Success		200	"Event processed or already seen"
//	@Failure		400	{object}	shopsdk.ErrorResponse	"Bad signature or unreadable payload"
//	@Router			/v1/webhook/payment [post].
func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Unreadable payload")
		return
	}

	err = h.CheckoutService.HandleWebhook(ctx, body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrBadSignature), errors.Is(err, payment.ErrGatewayDisabled):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_signature", "Signature verification failed")
		case errors.Is(err, store.ErrNotFound):
			// Event for an order we do not know. Acknowledge so the provider
			// stops retrying; the ledger still has the event id.
			log.Warn("payment event for unknown order")
			w.WriteHeader(http.StatusOK)
		default:
			log.Error("failed to process payment event", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
