package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/migrations"
	"github.com/sassamahha/shotenme/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *bun.DB, username string, isPro bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("original-password")
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		IsPro:        isPro,
	}
	_, err = db.NewInsert().Model(user).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return user
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "honya", false)
	other := createTestUser(t, db, "tonari", false)

	_, err := svc.UpdateProfile(ctx, UpdateProfileOptions{
		UserID: other.ID,
		Handle: pointerutil.String("tonari-books"),
	})
	require.NoError(t, err)

	t.Run("sets handle and display name", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, UpdateProfileOptions{
			UserID:      user.ID,
			Handle:      pointerutil.String("honya-san"),
			DisplayName: pointerutil.String("ほんやさん"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Handle)
		assert.Equal(t, "honya-san", *updated.Handle)
		require.NotNil(t, updated.DisplayName)
		assert.Equal(t, "ほんやさん", *updated.DisplayName)
	})

	t.Run("handle collisions are rejected case insensitively", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileOptions{
			UserID: user.ID,
			Handle: pointerutil.String("Tonari-Books"),
		})
		assert.EqualError(t, err, "Handle already exists")
	})

	t.Run("keeping your own handle is fine", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileOptions{
			UserID: user.ID,
			Handle: pointerutil.String("honya-san"),
		})
		require.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileOptions{UserID: 9999})
		assert.EqualError(t, err, "User not found.")
	})
}

func TestUpdateAccountPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "honya", false)

	t.Run("requires the current password", func(t *testing.T) {
		_, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
			UserID:          user.ID,
			CurrentPassword: pointerutil.String("wrong"),
			NewPassword:     pointerutil.String("new-password"),
		})
		assert.EqualError(t, err, "Current password is incorrect")

		_, err = svc.UpdateAccount(ctx, UpdateAccountOptions{
			UserID:      user.ID,
			NewPassword: pointerutil.String("new-password"),
		})
		assert.EqualError(t, err, "Current password is incorrect")
	})

	t.Run("changes the password", func(t *testing.T) {
		updated, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
			UserID:          user.ID,
			CurrentPassword: pointerutil.String("original-password"),
			NewPassword:     pointerutil.String("new-password"),
		})
		require.NoError(t, err)
		assert.True(t, auth.CheckPassword("new-password", updated.PasswordHash))
		assert.False(t, auth.CheckPassword("original-password", updated.PasswordHash))
	})
}

func TestUpdateAccountEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "honya", false)
	other := createTestUser(t, db, "tonari", false)

	_, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
		UserID: other.ID,
		Email:  pointerutil.String("tonari@example.com"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateAccount(ctx, UpdateAccountOptions{
		UserID: user.ID,
		Email:  pointerutil.String("Tonari@example.com"),
	})
	assert.EqualError(t, err, "Email already exists")

	updated, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
		UserID: user.ID,
		Email:  pointerutil.String("honya@example.com"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "honya@example.com", *updated.Email)
}

func TestUpdateAccountAffiliateTag(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("pro user keeps the tag", func(t *testing.T) {
		pro := createTestUser(t, db, "pro-user", true)

		updated, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
			UserID:                pro.ID,
			SetAmazonAssociateTag: true,
			AmazonAssociateTag:    pointerutil.String("honya-22"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.AmazonAssociateTag)
		assert.Equal(t, "honya-22", *updated.AmazonAssociateTag)
		assert.Equal(t, "honya-22", updated.AffiliateTag())
	})

	t.Run("free user's tag is forced null", func(t *testing.T) {
		free := createTestUser(t, db, "free-user", false)

		updated, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
			UserID:                free.ID,
			SetAmazonAssociateTag: true,
			AmazonAssociateTag:    pointerutil.String("free-22"),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.AmazonAssociateTag)
		assert.Empty(t, updated.AffiliateTag())
	})

	t.Run("pro user can clear the tag", func(t *testing.T) {
		pro := createTestUser(t, db, "pro-user-2", true)

		_, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
			UserID:                pro.ID,
			SetAmazonAssociateTag: true,
			AmazonAssociateTag:    pointerutil.String("keep-22"),
		})
		require.NoError(t, err)

		updated, err := svc.UpdateAccount(ctx, UpdateAccountOptions{
			UserID:                pro.ID,
			SetAmazonAssociateTag: true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.AmazonAssociateTag)
	})
}
