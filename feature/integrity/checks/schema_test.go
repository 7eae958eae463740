package checks

import (
	"regexp"
	"testing"

	"section-mirror/core/database"
	"section-mirror/feature/inventory/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, &models.Item{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("uuid", "varchar(36)", "YES", "UNI", nil, "").
		AddRow("name", "varchar(255)", "YES", "MUL", nil, "").
		AddRow("item_type", "varchar(64)", "YES", "MUL", nil, "").
		AddRow("store_id", "bigint unsigned", "YES", "MUL", nil, "")
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `items`")).WillReturnRows(rows)

	report, err := CheckSchema(db, &models.Item{})
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Equal(t, TableReport{MissingColumns: []string{"count"}, Status: "error"}, report.Tables["items"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_InspectFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `stores`")).WillReturnError(assert.AnError)

	report, err := CheckSchema(db, &models.Store{})
	require.NoError(t, err)

	assert.False(t, report.Matched)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "stores")
}

func TestCheckSchema_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Store{}, &models.Item{}))

	report, err := CheckSchema(db, &models.Store{}, &models.Item{})
	require.NoError(t, err)

	assert.True(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["stores"].Status)
	assert.Equal(t, "ok", report.Tables["items"].Status)
	assert.Empty(t, report.Errors)
}
