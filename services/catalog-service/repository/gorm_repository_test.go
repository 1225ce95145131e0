package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var productColumns = []string{"id", "name", "description", "price", "category", "image_url", "stock", "is_active", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGormRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGormRepository(gormDB)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	p, err := repo.Create(context.Background(), models.CreateProductRequest{Name: "Lamp", Price: 20, Stock: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
	assert.True(t, p.IsActive)
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGormRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows(productColumns))

	p, err := repo.GetByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestGormRepository_GetByID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGormRepository(gormDB)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(3, "MacBook Pro M3", "laptop", 1999.99, "Computers", "", 12, true, now, now))

	p, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "MacBook Pro M3", p.Name)
	assert.Equal(t, 12, p.Stock)
}

func TestGormRepository_Update_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGormRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows(productColumns))
	mock.ExpectRollback()

	name := "x"
	_, err := repo.Update(context.Background(), 42, models.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGormRepository_Delete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGormRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	assert.NoError(t, repo.Delete(context.Background(), 1))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	assert.ErrorIs(t, repo.Delete(context.Background(), 1), ErrProductNotFound)
}

func TestGormRepository_GetByCategory(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGormRepository(gormDB)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE LOWER(category) LIKE $1`)).
		WithArgs("%electro%").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(1, "iPhone 15 Pro", "", 999.99, "Electronics", "", 25, true, now, now))

	products, err := repo.GetByCategory(context.Background(), "Electro")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Electronics", products[0].Category)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
}
