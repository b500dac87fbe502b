package postgres

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
)

// newTestDB поднимает in-memory базу со схемой, построенной по сущностям.
// Каждый тест получает свою изолированную базу.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "In-memory база должна открываться")

	// Пул из одного соединения: каждое новое соединение к :memory:
	// видело бы свою пустую базу
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Question{},
		&entity.Option{},
		&entity.Attempt{},
		&entity.Answer{},
	)
	require.NoError(t, err, "Миграция схемы не должна падать")

	return db
}
