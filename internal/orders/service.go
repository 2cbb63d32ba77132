package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/enums"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
	"github.com/adiwijaya/larisin-backend/pkg/pagination"
)

// Service exposes order reads and the fulfillment state machine.
type Service interface {
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	ListAdmin(ctx context.Context, input AdminListInput) (*OrderListResult, error)
	Advance(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	SetPaymentProof(ctx context.Context, userID, orderID uuid.UUID, ref string) (*OrderDTO, error)
}

// AdminListInput captures the admin listing filters.
type AdminListInput struct {
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

type service struct {
	repo *Repository
}

// NewService constructs an order service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		// Hide other shoppers' orders entirely.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, orderListQuery{
		Pagination: params,
		UserID:     &userID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return newListResult(rows, nextCursor), nil
}

func (s *service) ListAdmin(ctx context.Context, input AdminListInput) (*OrderListResult, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", *input.Status))
	}
	rows, nextCursor, err := s.repo.List(ctx, orderListQuery{
		Pagination: input.Pagination,
		Status:     input.Status,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return newListResult(rows, nextCursor), nil
}

// Advance moves the order to its next fulfillment step. The transition
// is a compare-and-swap against the status read here, so a concurrent
// advance surfaces as a state conflict instead of a double step.
func (s *service) Advance(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", order.Status))
	}

	affected, err := s.repo.AdvanceStatus(ctx, orderID, order.Status, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advancing order")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order moved past %s concurrently", order.Status))
	}

	return s.Get(ctx, orderID)
}

// SetPaymentProof attaches the shopper's transfer receipt reference.
// Proof only makes sense before fulfillment starts.
func (s *service) SetPaymentProof(ctx context.Context, userID, orderID uuid.UUID, ref string) (*OrderDTO, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment proof reference is required")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.PaymentMethod != enums.PaymentMethodBankTransfer {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order does not take a payment proof")
	}
	switch order.Status {
	case enums.OrderStatusPending, enums.OrderStatusConfirmed:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("payment proof cannot change once the order is %s", order.Status))
	}

	if _, err := s.repo.SetPaymentProof(ctx, orderID, ref); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving payment proof")
	}
	return s.Get(ctx, orderID)
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

func newListResult(rows []models.Order, nextCursor string) *OrderListResult {
	result := &OrderListResult{
		Orders:     make([]OrderDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Orders = append(result.Orders, *NewOrderDTO(&rows[i]))
	}
	return result
}
