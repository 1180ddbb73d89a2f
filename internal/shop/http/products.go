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

// ProductHandler serves the catalog. Reads are open to any signed-in user;
// writes are administrator-only, enforced at the router.
type ProductHandler struct {
	ProductService *service.ProductService
}

func productResponse(p domain.Product) shopsdk.ProductResponse {
	return shopsdk.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Listed:      p.Listed,
	}
}

// HandleList handles GET /v1/products
//
//	@Summary		List catalog products
//	@Description	Customers see listed products only; administrators see the whole catalog.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}	shopsdk.ProductResponse
//	@Router			/v1/products [get].
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, _ := actorFromContext(ctx)
	listedOnly := actor.Role != domain.RoleAdministrator

	products, err := h.ProductService.List(ctx, listedOnly)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list products", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	out := make([]shopsdk.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/products/{id}
//
//	@Summary	Fetch one product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	shopsdk.ProductResponse
//	@Failure	404	{object}	shopsdk.ErrorResponse	"Unknown product"
//	@Router		/v1/products/{id} [get].
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.ProductService.Get(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown product")
			return
		}
		slogx.FromContext(ctx).Error("failed to load product", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	// Unlisted products look absent to customers.
	if actor, _ := actorFromContext(ctx); !product.Listed && actor.Role != domain.RoleAdministrator {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown product")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, productResponse(product))
}

// HandleCreate handles POST /v1/products
//
//	@Summary	Create a product (administrator)
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		request	body		shopsdk.ProductRequest	true	"Product, price in pennies"
//	@Success	201		{object}	shopsdk.ProductResponse
//	@Failure	400		{object}	shopsdk.ErrorResponse	"Missing name or negative price"
//	@Failure	403		{object}	shopsdk.ErrorResponse	"Administrator access required"
//	@Router		/v1/products [post].
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req shopsdk.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	product, err := h.ProductService.Create(ctx, req.Name, req.Description, req.Price, req.Listed)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProduct) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		slogx.FromContext(ctx).Error("failed to create product", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, productResponse(product))
}

// HandleUpdate handles PUT /v1/products/{id}
//
//	@Summary	Replace a product (administrator)
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Product ID"
//	@Param		request	body		shopsdk.ProductRequest	true	"New product fields"
//	@Success	200		{object}	shopsdk.ProductResponse
//	@Failure	404		{object}	shopsdk.ErrorResponse	"Unknown product"
//	@Router		/v1/products/{id} [put].
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req shopsdk.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	product, err := h.ProductService.Update(ctx, domain.Product{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Listed:      req.Listed,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProduct):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown product")
		default:
			slogx.FromContext(ctx).Error("failed to update product", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, productResponse(product))
}

// HandleDelete handles DELETE /v1/products/{id}
//
//	@Summary	Delete a product (administrator)
//	@Tags		Products
//	@Param		id	path	string	true	"Product ID"
//	@Success	204	"Deleted"
//	@Failure	404	{object}	shopsdk.ErrorResponse	"Unknown product"
//	@Router		/v1/products/{id} [delete].
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ProductService.Delete(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown product")
			return
		}
		slogx.FromContext(ctx).Error("failed to delete product", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
