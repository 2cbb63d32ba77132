package controllers

import (
	"net/http"

	"github.com/adiwijaya/larisin-backend/api/responses"
	"github.com/adiwijaya/larisin-backend/api/validators"
	"github.com/adiwijaya/larisin-backend/internal/coupons"
	"github.com/adiwijaya/larisin-backend/pkg/logger"
)

type couponValidateRequest struct {
	Code string `json:"code" validate:"required"`
}

// CouponValidate checks a code for the current shopper without
// committing anything.
func CouponValidate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req couponValidateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCouponCode(ctx, coupons.NormalizeCode(req.Code))
		}

		dto, err := svc.Validate(ctx, req.Code, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
