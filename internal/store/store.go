package store

import (
	"context"
	"database/sql"
	"time"

	"offer-service/internal/models"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const productColumns = `id, parent_id, type, name, slug, sku, regular_price, sale_price,
	image_url, attributes, in_stock, status, created_at`

// Store reads the storefront and offer tables. Every table name carries the
// host's table prefix.
type Store struct {
	db     *sqlx.DB
	prefix string
}

// NewStore creates a new database store
func NewStore(databaseURL, prefix string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}

	return NewWithDB(db, prefix), nil
}

// NewWithDB wraps an existing connection
func NewWithDB(db *sqlx.DB, prefix string) *Store {
	return &Store{db: db, prefix: prefix}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection, used by the readiness probe
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) table(name string) string {
	return s.prefix + name
}

// GetProductByID retrieves a product by ID; nil when it does not exist
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	query := "SELECT " + productColumns + " FROM " + s.table("products") + " WHERE id = $1"
	err := s.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &product, nil
}

// GetProductsByIDs retrieves multiple products by IDs, in no particular order
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT "+productColumns+" FROM "+s.table("products")+" WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	return products, nil
}

// GetVariations returns the variations of a variable product
func (s *Store) GetVariations(ctx context.Context, parentID int64) ([]models.Product, error) {
	var variations []models.Product
	query := "SELECT " + productColumns + " FROM " + s.table("products") +
		" WHERE parent_id = $1 AND type = $2 AND status = $3 ORDER BY id"
	err := s.db.SelectContext(ctx, &variations, query,
		parentID, models.ProductTypeVariation, models.ProductStatusPublish)
	if err != nil {
		return nil, errors.Wrapf(err, "get variations of %d", parentID)
	}
	return variations, nil
}

// GetOrderByID retrieves an order by ID; nil when it does not exist
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	query := "SELECT id, status, currency, created_at FROM " + s.table("orders") + " WHERE id = $1"
	err := s.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return &order, nil
}

// GetOrderItems retrieves all items for an order
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	query := "SELECT id, order_id, product_id, variation_id, name, quantity, line_total FROM " +
		s.table("order_items") + " WHERE order_id = $1 ORDER BY id"
	if err := s.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, errors.Wrapf(err, "get items of order %d", orderID)
	}
	return items, nil
}
