package mysql

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yutosuda/EC-sub001/pkg/product/domain/model"
)

func NewProductRepository(db *sqlx.DB) model.ProductRepository {
	return &productRepository{db: db}
}

type productRepository struct {
	db *sqlx.DB
}

type productRow struct {
	ID            string    `db:"id"`
	CategoryID    string    `db:"category_id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	SKU           string    `db:"sku"`
	UnitPrice     int64     `db:"unit_price"`
	StockQuantity int       `db:"stock_quantity"`
	ImageRef      string    `db:"image_ref"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type categoryRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Create(product *model.Product) error {
	const query = `
		INSERT INTO products
			(id, category_id, name, description, sku, unit_price,
			 stock_quantity, image_ref, status, created_at, updated_at)
		VALUES
			(:id, :category_id, :name, :description, :sku, :unit_price,
			 :stock_quantity, :image_ref, :status, :created_at, :updated_at)`
	_, err := r.db.NamedExec(query, toRow(product))
	return errors.Wrap(err, "insert product")
}

func (r *productRepository) Update(product *model.Product) error {
	const query = `
		UPDATE products SET
			category_id = :category_id,
			name = :name,
			description = :description,
			sku = :sku,
			unit_price = :unit_price,
			stock_quantity = :stock_quantity,
			image_ref = :image_ref,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`
	result, err := r.db.NamedExec(query, toRow(product))
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if affected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Find(id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := r.db.Get(&row, `SELECT * FROM products WHERE id = ?`, id.String())
	if err == sql.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product")
	}
	return fromRow(row)
}

func (r *productRepository) List(categoryID *uuid.UUID) ([]model.Product, error) {
	var (
		rows []productRow
		err  error
	)
	if categoryID != nil {
		err = r.db.Select(&rows, `SELECT * FROM products WHERE category_id = ? AND status <> 'archived' ORDER BY name`, categoryID.String())
	} else {
		err = r.db.Select(&rows, `SELECT * FROM products WHERE status <> 'archived' ORDER BY name`)
	}
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		product, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (r *productRepository) ListCategories() ([]model.Category, error) {
	var rows []categoryRow
	if err := r.db.Select(&rows, `SELECT * FROM categories ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "list categories")
	}

	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, errors.Wrap(err, "parse category id")
		}
		categories = append(categories, model.Category{ID: id, Name: row.Name, Slug: row.Slug})
	}
	return categories, nil
}

func toRow(product *model.Product) productRow {
	return productRow{
		ID:            product.ID.String(),
		CategoryID:    product.CategoryID.String(),
		Name:          product.Name,
		Description:   product.Description,
		SKU:           product.SKU,
		UnitPrice:     product.UnitPrice,
		StockQuantity: product.StockQuantity,
		ImageRef:      product.ImageRef,
		Status:        string(product.Status),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func fromRow(row productRow) (*model.Product, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse product id")
	}
	categoryID, err := uuid.Parse(row.CategoryID)
	if err != nil {
		return nil, errors.Wrap(err, "parse product category id")
	}

	return &model.Product{
		ID:            id,
		CategoryID:    categoryID,
		Name:          row.Name,
		Description:   row.Description,
		SKU:           row.SKU,
		UnitPrice:     row.UnitPrice,
		StockQuantity: row.StockQuantity,
		ImageRef:      row.ImageRef,
		Status:        model.ProductStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
