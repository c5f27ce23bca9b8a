package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"offer-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "parent_id", "type", "name", "slug", "sku", "regular_price",
	"sale_price", "image_url", "attributes", "in_stock", "status", "created_at"}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "postgres"), "wp_"), mock
}

func TestGetProductByID(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM wp_products WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(10, 0, "simple", "Mug", "mug", "MUG-1", "100.00", "80.00", "", []byte(`{}`), true, "publish", now))

	p, err := s.GetProductByID(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Mug", p.Name)
	assert.True(t, p.RegularPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, p.IsOnSale())
	assert.True(t, p.Price().Equal(decimal.NewFromInt(80)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM wp_products WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	p, err := s.GetProductByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetProductsByIDs(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM wp_products WHERE id IN \(\$1, \$2\)`).
		WithArgs(int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(1, 0, "simple", "A", "a", "", "10", nil, "", nil, true, "publish", now).
			AddRow(3, 0, "variable", "B", "b", "", "20", nil, "", []byte(`{"Color":"Red|Blue"}`), true, "publish", now))

	products, err := s.GetProductsByIDs(context.Background(), []int64{3, 1})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"Red", "Blue"}, products[1].Attributes.Options("Color"))
	assert.False(t, products[0].SalePrice.Valid)
}

func TestGetProductsByIDsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	products, err := s.GetProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBogoOfferByProducts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM wp_bogo_offers WHERE buy_product_id = \$1 AND get_product_id = \$2`).
		WithArgs(int64(10), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "buy_product_id", "get_product_id", "discount",
			"override_type", "status", "created_at"}).
			AddRow(7, 10, 20, "25", "regular", "active", time.Now()))

	offer, err := s.GetBogoOfferByProducts(context.Background(), 10, 20)
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, int64(7), offer.ID)
	assert.True(t, offer.Discount.Equal(decimal.NewFromInt(25)))
	assert.True(t, offer.IsActive())
}

func TestGetFlashOfferByPostIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM wp_flash_offers WHERE post_id = \$1 AND offer_type = \$2`).
		WithArgs(int64(5), models.OfferTypeSpecial).
		WillReturnError(sql.ErrNoRows)

	offer, err := s.GetFlashOfferByPostID(context.Background(), 5, models.OfferTypeSpecial)
	assert.NoError(t, err)
	assert.Nil(t, offer)
}

func TestGetOfferProductIDsKeepsStoredOrder(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT product_id FROM wp_flash_offer_products WHERE offer_id = \$1 ORDER BY id`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(30).AddRow(10).AddRow(20))

	ids, err := s.GetOfferProductIDs(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{30, 10, 20}, ids)
}

func TestGetOption(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT value FROM wp_options WHERE name = \$1`).
		WithArgs(models.OptionFlashOffers).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).
			AddRow([]byte(`{"message":"You saved {amount}","countdown_format":"format2"}`)))

	var opts models.FlashOptions
	found, err := s.GetOption(context.Background(), models.OptionFlashOffers, &opts)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "You saved {amount}", opts.Message)
	assert.Equal(t, "format2", opts.CountdownFormat)
	assert.Equal(t, models.OverrideSale, opts.WithDefaults().FlashOverrideType)
}

func TestGetOptionMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT value FROM wp_options WHERE name = \$1`).
		WithArgs(models.OptionBogoOffers).
		WillReturnError(sql.ErrNoRows)

	var opts models.BogoOptions
	found, err := s.GetOption(context.Background(), models.OptionBogoOffers, &opts)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetOrderItems(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM wp_order_items WHERE order_id = \$1 ORDER BY id`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "variation_id",
			"name", "quantity", "line_total"}).
			AddRow(1, 100, 10, 0, "Mug", 2, "160.00").
			AddRow(2, 100, 11, 15, "Shirt - Red", 1, "20.00"))

	items, err := s.GetOrderItems(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(10), items[0].PurchasedProductID())
	assert.Equal(t, int64(15), items[1].PurchasedProductID())
	assert.True(t, items[0].LineTotal.Equal(decimal.NewFromInt(160)))
}

func TestMigrateSubstitutesPrefix(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS wp_products`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
