package controllers

import (
	"net/http"

	"github.com/adiwijaya/larisin-backend/api/responses"
	"github.com/adiwijaya/larisin-backend/api/validators"
	"github.com/adiwijaya/larisin-backend/internal/checkout"
	"github.com/adiwijaya/larisin-backend/pkg/enums"
	"github.com/adiwijaya/larisin-backend/pkg/logger"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

type checkoutRequest struct {
	CouponCode      string                `json:"coupon_code,omitempty"`
	ShippingMethod  string                `json:"shipping_method" validate:"required"`
	PaymentMethod   string                `json:"payment_method" validate:"required"`
	ShippingDetails types.ShippingDetails `json:"shipping_details" validate:"required"`
}

type quoteRequest struct {
	CouponCode     string `json:"coupon_code,omitempty"`
	ShippingMethod string `json:"shipping_method" validate:"required"`
}

// Checkout places an order from the shopper's selected cart lines.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.PlaceOrder(r.Context(), userID, checkout.PlaceOrderInput{
			CouponCode:      req.CouponCode,
			ShippingMethod:  enums.ShippingMethod(req.ShippingMethod),
			PaymentMethod:   enums.PaymentMethod(req.PaymentMethod),
			ShippingDetails: req.ShippingDetails,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, dto.ID.String())
			logg.Info(ctx, "order placed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// CheckoutQuote previews the breakdown for the current selection.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req quoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.Quote(r.Context(), userID, checkout.QuoteInput{
			CouponCode:     req.CouponCode,
			ShippingMethod: enums.ShippingMethod(req.ShippingMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}
