package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/partner"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newCustomer(t *testing.T, name, phone string, at time.Time) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.CustomerDetails{
		Name:  name,
		Phone: phone,
		Measurements: partner.MeasurementRecord{
			Shirt:  "40",
			Others: []partner.Measurement{{Label: "Kurta", Value: "38"}},
		},
	}, at)
	require.NoError(t, err)
	return c
}

func TestGormCustomerRepository_SaveAndFind(t *testing.T) {
	repo := NewGormCustomerRepository(newTestDB(t))
	ctx := context.Background()

	c := newCustomer(t, "Ravi Kumar", "98765 43210", baseTime)
	c.ReferenceName = "Suresh"
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
	assert.Equal(t, "Ravi Kumar", found.Name)
	assert.Equal(t, "Suresh", found.ReferenceName)
	assert.Equal(t, "40", found.Measurements.Shirt)
	assert.Empty(t, found.Measurements.Pant)
	assert.Equal(t, []partner.Measurement{{Label: "Kurta", Value: "38"}}, found.Measurements.Others)
	assert.True(t, baseTime.Equal(found.CreatedAt))
}

func TestGormCustomerRepository_Update(t *testing.T) {
	repo := NewGormCustomerRepository(newTestDB(t))
	ctx := context.Background()

	c := newCustomer(t, "Ravi", "1", baseTime)
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, c.Update(partner.CustomerDetails{Name: "Ravi K", Phone: "2"}, baseTime.Add(time.Hour)))
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", found.Name)
	assert.Empty(t, found.Measurements.Others)
	assert.True(t, baseTime.Equal(found.CreatedAt))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormCustomerRepository_FindAllOrdering(t *testing.T) {
	repo := NewGormCustomerRepository(newTestDB(t))
	ctx := context.Background()

	for i, name := range []string{"Bala", "Anil", "Chetan"} {
		require.NoError(t, repo.Save(ctx, newCustomer(t, name, "1", baseTime.Add(time.Duration(i)*time.Minute))))
	}

	tests := []struct {
		name   string
		filter shared.Filter
		want   []string
	}{
		{"newest first by default", shared.DefaultFilter(), []string{"Chetan", "Anil", "Bala"}},
		{"by name for the picker", shared.Filter{OrderBy: "name", OrderDir: "asc"}, []string{"Anil", "Bala", "Chetan"}},
		{"unknown field falls back", shared.Filter{OrderBy: "secret", OrderDir: "asc"}, []string{"Bala", "Anil", "Chetan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, len(customers))
			for i := range customers {
				names[i] = customers[i].Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestGormCustomerRepository_NotFound(t *testing.T) {
	repo := NewGormCustomerRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	repo := NewGormCustomerRepository(newTestDB(t))
	ctx := context.Background()

	c := newCustomer(t, "Ravi", "1", baseTime)
	require.NoError(t, repo.Save(ctx, c))
	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err := repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCustomerRepository_DatabaseError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	repo := NewGormCustomerRepository(gormDB)

	connErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "customers" ORDER BY created_at DESC, id DESC`).WillReturnError(connErr)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).WillReturnError(connErr)

	_, err = repo.FindAll(context.Background(), shared.DefaultFilter())
	assert.ErrorIs(t, err, connErr)

	_, err = repo.Count(context.Background())
	assert.ErrorIs(t, err, connErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}
