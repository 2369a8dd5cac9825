package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yutosuda/EC-sub001/pkg/event"
	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
)

var (
	ErrOrderIsEmpty         = errors.New("cannot process an empty order")
	ErrInvalidQuantity      = errors.New("order item quantity must be a positive number")
	ErrNegativePrice        = errors.New("item price cannot be negative")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)

// OrderService owns the server side of the order lifecycle.
type OrderService interface {
	PlaceOrder(userID uuid.UUID, draft model.OrderDraft) (*model.Order, error)
	ListOrders(userID uuid.UUID) ([]model.Order, error)
	GetOrder(orderID uuid.UUID) (*model.Order, error)
	CancelOrder(orderID uuid.UUID) (*model.Order, error)
}

func NewOrderService(repo model.OrderRepository, dispatcher event.Dispatcher) OrderService {
	return &orderService{repo: repo, dispatcher: dispatcher}
}

type orderService struct {
	repo       model.OrderRepository
	dispatcher event.Dispatcher
}

// PlaceOrder validates the draft, recomputes line subtotals and the order
// total server-side, and persists the order as pending.
func (s *orderService) PlaceOrder(userID uuid.UUID, draft model.OrderDraft) (*model.Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrOrderIsEmpty
	}
	if !draft.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	items := make([]model.OrderItem, 0, len(draft.Items))
	for _, item := range draft.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.UnitPrice < 0 {
			return nil, ErrNegativePrice
		}
		item.Subtotal = int64(item.Quantity) * item.UnitPrice
		items = append(items, item)
	}
	summary := CalculateOrderSummary(items)

	orderID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:              orderID,
		UserID:          userID,
		Items:           items,
		ShippingAddress: draft.ShippingAddress,
		BillingAddress:  draft.BillingAddress,
		TotalAmount:     summary.TotalAmount,
		Status:          model.StatusPending,
		PaymentMethod:   draft.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.OrderPlaced{OrderID: orderID, UserID: userID, TotalAmount: order.TotalAmount})
	return order, nil
}

func (s *orderService) ListOrders(userID uuid.UUID) ([]model.Order, error) {
	return s.repo.FindByUser(userID)
}

func (s *orderService) GetOrder(orderID uuid.UUID) (*model.Order, error) {
	return s.repo.Find(orderID)
}

// CancelOrder cancels an order that has not shipped yet. A paid order is
// marked refunded.
func (s *orderService) CancelOrder(orderID uuid.UUID) (*model.Order, error) {
	order, err := s.repo.Find(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != model.StatusPending && order.Status != model.StatusProcessing {
		return nil, model.ErrOrderNotCancellable
	}

	order.Status = model.StatusCancelled
	if order.PaymentStatus == model.PaymentStatusPaid {
		order.PaymentStatus = model.PaymentStatusRefunded
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.OrderCancelled{OrderID: order.ID, UserID: order.UserID})
	return order, nil
}
