package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDatabase opens a migrated in-memory SQLite catalog store
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true, TranslateError: true})
	require.NoError(t, err)
	return &Database{DB: gormDB, Driver: "postgres"}, mock
}

func TestNewDatabase_SQLite(t *testing.T) {
	db := newTestDatabase(t)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
	assert.NoError(t, db.Ping())
	assert.True(t, db.DB.Migrator().HasTable("commerce_product_variations"))
	assert.True(t, db.DB.Migrator().HasTable("taxonomy_terms"))
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabase_PingPostgres(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductTypeRepository_FindByID_Postgres(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewGormProductTypeRepository(db.DB)

	mock.ExpectQuery(`SELECT \* FROM "commerce_product_types" WHERE id = \$1`).
		WithArgs("9", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "variation_type_id"}).
			AddRow("9", "Top", "default"))

	pt, err := repo.FindByID(t.Context(), "9")
	require.NoError(t, err)
	assert.Equal(t, "Top", pt.Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}
