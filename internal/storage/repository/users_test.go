package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

func TestStorage_ListUsers(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	end := models.NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	trial := models.NewDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	factory.SaveUser(t, models.User{UserID: 30, UserName: ptr("bob"), EndDate: &end, EndTrialPeriod: &trial})
	factory.SaveUser(t, models.User{UserID: 10})

	users, err = storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(10), users[0].UserID)
	assert.Nil(t, users[0].UserName)
	assert.Nil(t, users[0].EndDate)
	assert.Equal(t, int64(30), users[1].UserID)
	require.NotNil(t, users[1].UserName)
	assert.Equal(t, "bob", *users[1].UserName)
	require.NotNil(t, users[1].EndDate)
	assert.Equal(t, "2025-03-01", users[1].EndDate.Format(models.DateLayout))
	require.NotNil(t, users[1].EndTrialPeriod)
	assert.Equal(t, "2024-12-31", users[1].EndTrialPeriod.Format(models.DateLayout))
}

func TestStorage_ListUsers_ReflectsOverwrite(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.SaveUser(t, models.User{UserID: 1, UserName: ptr("old")})
	factory.SaveUser(t, models.User{UserID: 1, UserName: ptr("new")})

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "new", *users[0].UserName)
}

func TestStorage_DeleteUser_CascadesLinks(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateUser(t, 5)
	factory.CreateUser(t, 6)
	owned := []int64{
		factory.CreateLink(t, "vless://owned-1", ptr(int64(5))),
		factory.CreateLink(t, "vless://owned-2", ptr(int64(5))),
		factory.CreateLink(t, "vless://owned-3", ptr(int64(5))),
	}
	otherID := factory.CreateLink(t, "vless://other", ptr(int64(6)))
	freeID := factory.CreateLink(t, "vless://free", nil)

	n, err := storage.DeleteUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for _, id := range owned {
		_, err = storage.GetLink(ctx, id)
		require.ErrorIs(t, err, models.ErrNotFound)
	}
	remaining, err := storage.PageLinks(ctx, models.LinkFilter{UserID: ptr(int64(5))}, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, remaining.Total)
	assert.Empty(t, remaining.Items)

	free, err := storage.GetLink(ctx, freeID)
	require.NoError(t, err)
	assert.True(t, free.IsFree())
	other, err := storage.GetLink(ctx, otherID)
	require.NoError(t, err)
	require.NotNil(t, other.UserID)
	assert.Equal(t, int64(6), *other.UserID)
	assert.Equal(t, 1, factory.CountFree(t))

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(6), users[0].UserID)

	n, err = storage.DeleteUser(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, n)
}
