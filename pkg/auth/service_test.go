package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/sassamahha/shotenme/pkg/migrations"
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

func TestSignup(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupOptions{
		Username: "honya",
		Email:    pointerutil.String("honya@example.com"),
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "honya", user.Username)
	assert.NotEqual(t, "correct horse battery staple", user.PasswordHash)
	assert.False(t, user.IsPro)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupOptions{Username: "honya", Password: "pw"})
		assert.EqualError(t, err, "Username already exists")
	})

	t.Run("duplicate username different case", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupOptions{Username: "HONYA", Password: "pw"})
		assert.EqualError(t, err, "Username already exists")
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupOptions{
			Username: "other",
			Email:    pointerutil.String("honya@example.com"),
			Password: "pw",
		})
		assert.EqualError(t, err, "Email already exists")
	})
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupOptions{Username: "honya", Password: "s3cret-passw0rd"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "honya", "s3cret-passw0rd")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("username is case insensitive", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "Honya", "s3cret-passw0rd")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "honya", "wrong")
		assert.EqualError(t, err, "Invalid username or password")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "s3cret-passw0rd")
		assert.EqualError(t, err, "Invalid username or password")
	})
}

func TestTokenRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupOptions{Username: "honya", Password: "pw-long-enough"})
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "honya", claims.Username)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService(db, "different-secret")
		_, err := other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("open sesame")
	require.NoError(t, err)

	assert.True(t, CheckPassword("open sesame", hash))
	assert.False(t, CheckPassword("close sesame", hash))
}
