package coupons

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/config"
	"github.com/adiwijaya/larisin-backend/pkg/db"
	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
	"github.com/adiwijaya/larisin-backend/pkg/pagination"
)

// RejectReason identifies why a coupon code failed validation. Checks
// run in a fixed order so a code that fails several ways always reports
// the same reason.
type RejectReason string

const (
	ReasonEmptyCode         RejectReason = "empty_code"
	ReasonNotFound          RejectReason = "not_found"
	ReasonInactive          RejectReason = "inactive"
	ReasonExpired           RejectReason = "expired"
	ReasonUsageLimitReached RejectReason = "usage_limit_reached"
	ReasonAlreadyUsed       RejectReason = "already_used_by_user"
)

// Reject builds the typed validation error for a reason.
func Reject(reason RejectReason) *pkgerrors.Error {
	var base *pkgerrors.Error
	switch reason {
	case ReasonEmptyCode:
		base = pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	case ReasonNotFound:
		base = pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	case ReasonInactive:
		base = pkgerrors.New(pkgerrors.CodeConflict, "coupon is not active")
	case ReasonExpired:
		base = pkgerrors.New(pkgerrors.CodeConflict, "coupon has expired")
	case ReasonUsageLimitReached:
		base = pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
	case ReasonAlreadyUsed:
		base = pkgerrors.New(pkgerrors.CodeConflict, "coupon already used by this user")
	default:
		base = pkgerrors.New(pkgerrors.CodeInternal, "coupon rejected")
	}
	return base.WithDetails(map[string]string{"reason": string(reason)})
}

// ReasonOf extracts the reject reason from a validation error, if any.
func ReasonOf(err error) (RejectReason, bool) {
	appErr := pkgerrors.As(err)
	if appErr == nil {
		return "", false
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		return "", false
	}
	reason, ok := details["reason"]
	return RejectReason(reason), ok
}

// Service exposes coupon validation, redemption bookkeeping and the
// admin management surface.
type Service interface {
	Validate(ctx context.Context, code string, userID uuid.UUID) (*ValidatedCouponDTO, error)
	Resolve(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error)
	CommitUsage(ctx context.Context, tx *gorm.DB, couponID, userID, orderID uuid.UUID) error
	Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*CouponDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) (*CouponListResult, error)
}

// CreateCouponInput holds the validated payload to create a coupon.
// Code is optional; when empty a random code is generated.
type CreateCouponInput struct {
	Code            string
	DiscountPercent int
	ExpiresAt       *time.Time
	MaxUsage        *int
	CreatedBy       uuid.UUID
}

type service struct {
	repo *Repository
	cfg  config.CouponConfig
	now  func() time.Time
}

// NewService constructs a coupon service instance.
func NewService(repo *Repository, cfg config.CouponConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if cfg.CodeLength <= 0 {
		return nil, fmt.Errorf("coupon code length must be positive")
	}
	if cfg.CodeMaxAttempts <= 0 {
		return nil, fmt.Errorf("coupon code max attempts must be positive")
	}
	return &service{repo: repo, cfg: cfg, now: time.Now}, nil
}

// NormalizeCode canonicalizes user-entered codes before lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a code for the given user and returns the shopper
// payload when it is redeemable right now.
func (s *service) Validate(ctx context.Context, code string, userID uuid.UUID) (*ValidatedCouponDTO, error) {
	coupon, err := s.Resolve(ctx, code, userID)
	if err != nil {
		return nil, err
	}
	return &ValidatedCouponDTO{
		Code:            coupon.Code,
		DiscountPercent: coupon.DiscountPercent,
	}, nil
}

// Resolve runs the full validation chain and returns the coupon model.
// Check order is fixed: empty code, existence, active flag, expiry,
// usage cap, then per-user reuse.
func (s *service) Resolve(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, Reject(ReasonEmptyCode)
	}

	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Reject(ReasonNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading coupon")
	}

	if !coupon.IsActive {
		return nil, Reject(ReasonInactive)
	}
	if coupon.ExpiredAt(s.now()) {
		return nil, Reject(ReasonExpired)
	}
	if coupon.UsageExhausted() {
		return nil, Reject(ReasonUsageLimitReached)
	}

	used, err := s.repo.HasUserRedemption(ctx, coupon.ID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking coupon redemptions")
	}
	if used {
		return nil, Reject(ReasonAlreadyUsed)
	}

	return coupon, nil
}

// CommitUsage records the redemption inside the caller's transaction.
// Committing the same (coupon, order) pair twice is a no-op, so a
// replayed checkout cannot double-count. The guarded increment keeps
// usage_count at or below max_usage under concurrent commits.
func (s *service) CommitUsage(ctx context.Context, tx *gorm.DB, couponID, userID, orderID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "commit usage requires a transaction")
	}
	repo := s.repo.WithTx(tx)

	committed, err := repo.HasOrderRedemption(ctx, couponID, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking order redemption")
	}
	if committed {
		return nil
	}

	inserted, err := repo.InsertRedemption(ctx, &models.CouponRedemption{
		ID:       uuid.New(),
		CouponID: couponID,
		UserID:   userID,
		OrderID:  orderID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting redemption")
	}
	if !inserted {
		// The order check above passed, so the clash is the per-user index.
		return Reject(ReasonAlreadyUsed)
	}

	affected, err := repo.IncrementUsage(ctx, couponID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "incrementing coupon usage")
	}
	if affected == 0 {
		return Reject(ReasonUsageLimitReached)
	}
	return nil
}

// Create inserts a coupon, generating a unique random code when none is
// supplied. Generation retries on collision a bounded number of times.
func (s *service) Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error) {
	if input.DiscountPercent < 1 || input.DiscountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 1 and 100")
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at must be in the future")
	}
	if input.MaxUsage != nil && *input.MaxUsage < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_usage must be positive")
	}

	if explicit := NormalizeCode(input.Code); explicit != "" {
		coupon, err := s.insertCoupon(ctx, explicit, input)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("coupon code %q already exists", explicit))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating coupon")
		}
		return NewCouponDTO(coupon), nil
	}

	for attempt := 0; attempt < s.cfg.CodeMaxAttempts; attempt++ {
		code, err := randomCode(s.cfg.CodeLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating coupon code")
		}
		coupon, err := s.insertCoupon(ctx, code, input)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating coupon")
		}
		return NewCouponDTO(coupon), nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not generate a unique coupon code")
}

func (s *service) insertCoupon(ctx context.Context, code string, input CreateCouponInput) (*models.Coupon, error) {
	return s.repo.Create(ctx, &models.Coupon{
		ID:              uuid.New(),
		Code:            code,
		DiscountPercent: input.DiscountPercent,
		IsActive:        true,
		ExpiresAt:       input.ExpiresAt,
		MaxUsage:        input.MaxUsage,
		CreatedBy:       input.CreatedBy,
	})
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*CouponDTO, error) {
	affected, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating coupon")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading coupon")
	}
	return NewCouponDTO(coupon), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading coupon")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting coupon")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*CouponListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing coupons")
	}
	result := &CouponListResult{
		Coupons:    make([]CouponDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Coupons = append(result.Coupons, *NewCouponDTO(&rows[i]))
	}
	return result, nil
}

// codeAlphabet omits easily-confused characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func randomCode(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = codeAlphabet[n.Int64()]
	}
	return string(out), nil
}
