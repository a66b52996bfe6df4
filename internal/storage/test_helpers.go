package storage

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/thoughts2action/thoughts2action/internal/migrations"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, username, email, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, role)
		VALUES ($1, $2, $3, $4)`,
		userUID, username, email, role)
	require.NoError(t, err)
}

// CreateEntitlement создает строку биллингового статуса
func (f *TestDataFactory) CreateEntitlement(t *testing.T, userUID string, status models.SubscriptionStatus) {
	_, err := f.storage.DB.Exec(`INSERT INTO entitlements (user_uid, subscription_status)
		VALUES ($1, $2)`,
		userUID, status)
	require.NoError(t, err)
}

// CreateThought создает тестовую заметку и возвращает ее ID
func (f *TestDataFactory) CreateThought(t *testing.T, userUID, username, title, content, source string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO thoughts (user_uid, username, title, content, source)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userUID, username, title, content, source).Scan(&id)
	require.NoError(t, err)
	return id
}

// GetTestUserUID возвращает свежий UID тестового пользователя
func GetTestUserUID() string {
	return uuid.New().String()
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
// и применяет к ней миграции приложения.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(storage.DB, migrationsPath(t)))

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

func migrationsPath(t *testing.T) string {
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")
}
