package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

func TestStorage_ThoughtsCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := GetTestUserUID()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "user")

	ctx := context.Background()

	id, err := storage.CreateThought(ctx, models.Thought{
		UserUID:  userUID,
		Username: "testuser",
		Title:    "release planning",
		Content:  "ship the beta and gather feedback",
		Source:   models.SourceTyped,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := storage.ReadThought(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "release planning", got.Title)
	assert.Empty(t, got.Summary)
	assert.Empty(t, got.ActionItems)

	require.NoError(t, storage.SetThoughtSummary(ctx, id, "plan the beta release",
		[]string{"ship the beta", "gather feedback"}))

	got, err = storage.ReadThought(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "plan the beta release", got.Summary)
	assert.Equal(t, []string{"ship the beta", "gather feedback"}, got.ActionItems)

	count, err := storage.UpdateThought(ctx, models.Thought{
		Title:   "release planning v2",
		Content: "ship the beta next week",
	}, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err := storage.ListThoughts(ctx, "testuser", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	removed, err := storage.RemoveThought(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestStorage_EntitlementStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := GetTestUserUID()
	factory.CreateUser(t, userUID, "billableuser", "bill@example.com", "user")

	ctx := context.Background()

	// Пользователь без строки биллинга — StatusNone, не ошибка
	status, err := storage.GetEntitlementStatus(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, status)

	require.NoError(t, storage.UpsertEntitlementStatus(ctx, userUID, models.StatusActive))
	status, err = storage.GetEntitlementStatus(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)

	// Смена статуса меняет следующее чтение без каких-либо иных действий
	require.NoError(t, storage.UpsertEntitlementStatus(ctx, userUID, models.StatusPastDue))
	status, err = storage.GetEntitlementStatus(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPastDue, status)
}

func TestStorage_Users(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	userUID := GetTestUserUID()

	require.NoError(t, storage.UpsertUser(ctx, models.User{
		UID:      userUID,
		Email:    "test@example.com",
		Username: "testuser",
		Role:     models.RoleUser,
	}))

	// Повторный upsert обновляет роль
	require.NoError(t, storage.UpsertUser(ctx, models.User{
		UID:      userUID,
		Email:    "test@example.com",
		Username: "testuser",
		Role:     models.RoleAdmin,
	}))

	got, err := storage.GetUser(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	users, err := storage.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
