package mysql

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
)

func NewOrderRepository(db *sqlx.DB) model.OrderRepository {
	return &orderRepository{db: db}
}

type orderRepository struct {
	db *sqlx.DB
}

// Items and addresses are stored as JSON documents next to the scalar order
// columns, mirroring the document shape the API serves.
type orderRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Items           []byte    `db:"items"`
	ShippingAddress []byte    `db:"shipping_address"`
	BillingAddress  []byte    `db:"billing_address"`
	TotalAmount     int64     `db:"total_amount"`
	Status          string    `db:"status"`
	PaymentMethod   string    `db:"payment_method"`
	PaymentStatus   string    `db:"payment_status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *orderRepository) Create(order *model.Order) error {
	row, err := toRow(order)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO orders
			(id, user_id, items, shipping_address, billing_address,
			 total_amount, status, payment_method, payment_status, created_at, updated_at)
		VALUES
			(:id, :user_id, :items, :shipping_address, :billing_address,
			 :total_amount, :status, :payment_method, :payment_status, :created_at, :updated_at)`
	_, err = r.db.NamedExec(query, row)
	return errors.Wrap(err, "insert order")
}

func (r *orderRepository) Update(order *model.Order) error {
	row, err := toRow(order)
	if err != nil {
		return err
	}

	const query = `
		UPDATE orders SET
			items = :items,
			shipping_address = :shipping_address,
			billing_address = :billing_address,
			total_amount = :total_amount,
			status = :status,
			payment_method = :payment_method,
			payment_status = :payment_status,
			updated_at = :updated_at
		WHERE id = :id`
	result, err := r.db.NamedExec(query, row)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	if affected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Find(id uuid.UUID) (*model.Order, error) {
	var row orderRow
	err := r.db.Get(&row, `SELECT * FROM orders WHERE id = ?`, id.String())
	if err == sql.ErrNoRows {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	return fromRow(row)
}

func (r *orderRepository) FindByUser(userID uuid.UUID) ([]model.Order, error) {
	var rows []orderRow
	err := r.db.Select(&rows, `SELECT * FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func toRow(order *model.Order) (orderRow, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return orderRow{}, errors.Wrap(err, "encode order items")
	}
	shipping, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return orderRow{}, errors.Wrap(err, "encode shipping address")
	}
	var billing []byte
	if order.BillingAddress != nil {
		if billing, err = json.Marshal(order.BillingAddress); err != nil {
			return orderRow{}, errors.Wrap(err, "encode billing address")
		}
	}

	return orderRow{
		ID:              order.ID.String(),
		UserID:          order.UserID.String(),
		Items:           items,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		PaymentMethod:   string(order.PaymentMethod),
		PaymentStatus:   string(order.PaymentStatus),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}, nil
}

func fromRow(row orderRow) (*model.Order, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order id")
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order user id")
	}

	var items []model.OrderItem
	if err := json.Unmarshal(row.Items, &items); err != nil {
		return nil, errors.Wrap(err, "decode order items")
	}
	var shipping model.Address
	if err := json.Unmarshal(row.ShippingAddress, &shipping); err != nil {
		return nil, errors.Wrap(err, "decode shipping address")
	}
	var billing *model.Address
	if len(row.BillingAddress) > 0 {
		billing = new(model.Address)
		if err := json.Unmarshal(row.BillingAddress, billing); err != nil {
			return nil, errors.Wrap(err, "decode billing address")
		}
	}

	return &model.Order{
		ID:              id,
		UserID:          userID,
		Items:           items,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		TotalAmount:     row.TotalAmount,
		Status:          model.OrderStatus(row.Status),
		PaymentMethod:   model.PaymentMethod(row.PaymentMethod),
		PaymentStatus:   model.PaymentStatus(row.PaymentStatus),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
