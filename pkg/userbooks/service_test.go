package userbooks

import (
	"context"
	"database/sql"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/sassamahha/shotenme/pkg/migrations"
	"github.com/sassamahha/shotenme/pkg/models"
	"github.com/sassamahha/shotenme/pkg/revalidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return NewService(db, revalidate.NewNotifier("", "")), db
}

func createTestBookstore(t *testing.T, db *bun.DB, username string) (*models.User, *models.Bookstore) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: username, PasswordHash: "x"}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	require.NoError(t, err)

	bookstore := &models.Bookstore{OwnerID: user.ID, Theme: models.DefaultTheme}
	_, err = db.NewInsert().Model(bookstore).Returning("*").Exec(ctx)
	require.NoError(t, err)

	return user, bookstore
}

func addShelfEntry(t *testing.T, db *bun.DB, bookstoreID int, asin string, sortOrder int) *models.UserBook {
	t.Helper()
	ctx := context.Background()

	book := &models.Book{ASIN: asin, Title: asin, Author: models.NoAuthorPlaceholder}
	_, err := db.NewInsert().
		Model(book).
		On("CONFLICT (asin) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	require.NoError(t, err)

	userBook := &models.UserBook{
		BookstoreID: bookstoreID,
		BookID:      book.ID,
		SortOrder:   sortOrder,
		IsPublic:    true,
	}
	_, err = db.NewInsert().Model(userBook).Returning("*").Exec(ctx)
	require.NoError(t, err)
	return userBook
}

func shelfOrder(t *testing.T, db *bun.DB, bookstoreID int) []int {
	t.Helper()

	entries := []*models.UserBook{}
	err := db.NewSelect().
		Model(&entries).
		Where("ub.bookstore_id = ?", bookstoreID).
		Order("ub.sort_order ASC").
		Scan(context.Background())
	require.NoError(t, err)

	ids := make([]int, 0, len(entries))
	for i, e := range entries {
		// The shelf must stay densely numbered from 1.
		require.Equal(t, i+1, e.SortOrder)
		ids = append(ids, e.ID)
	}
	return ids
}

func TestUpdate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner, bookstore := createTestBookstore(t, db, "honya")
	entry := addShelfEntry(t, db, bookstore.ID, "4101010137", 1)

	t.Run("association fields", func(t *testing.T) {
		private := false
		updated, err := svc.Update(ctx, UpdateOptions{
			UserBookID: entry.ID,
			CallerID:   owner.ID,
			Comment:    pointerutil.String("名作"),
			IsPublic:   &private,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Comment)
		assert.Equal(t, "名作", *updated.Comment)
		assert.False(t, updated.IsPublic)
	})

	t.Run("catalog fields are shared across shelves", func(t *testing.T) {
		_, otherStore := createTestBookstore(t, db, "tonari")
		otherEntry := addShelfEntry(t, db, otherStore.ID, "4101010137", 1)

		_, err := svc.Update(ctx, UpdateOptions{
			UserBookID: entry.ID,
			CallerID:   owner.ID,
			Title:      pointerutil.String("雪国"),
			Author:     pointerutil.String("川端康成"),
		})
		require.NoError(t, err)

		book := &models.Book{ID: otherEntry.BookID}
		require.NoError(t, db.NewSelect().Model(book).WherePK().Scan(ctx))
		assert.Equal(t, "雪国", book.Title)
		assert.Equal(t, "川端康成", book.Author)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := svc.Update(ctx, UpdateOptions{UserBookID: 9999, CallerID: owner.ID})
		assert.EqualError(t, err, "Book not found.")
	})

	t.Run("non-owner", func(t *testing.T) {
		intruder, _ := createTestBookstore(t, db, "yosomono")
		_, err := svc.Update(ctx, UpdateOptions{
			UserBookID: entry.ID,
			CallerID:   intruder.ID,
			Comment:    pointerutil.String("いたずら"),
		})
		assert.EqualError(t, err, "You don't own this bookstore is not allowed.")
	})
}

func TestRemove(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner, bookstore := createTestBookstore(t, db, "honya")
	first := addShelfEntry(t, db, bookstore.ID, "4101010137", 1)
	second := addShelfEntry(t, db, bookstore.ID, "4087520323", 2)
	third := addShelfEntry(t, db, bookstore.ID, "4575248525", 3)

	t.Run("removing the middle renumbers the rest", func(t *testing.T) {
		err := svc.Remove(ctx, RemoveOptions{UserBookID: second.ID, CallerID: owner.ID})
		require.NoError(t, err)

		ids := shelfOrder(t, db, bookstore.ID)
		assert.Equal(t, []int{first.ID, third.ID}, ids)
	})

	t.Run("catalog row outlives the shelf entry", func(t *testing.T) {
		count, err := db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("missing entry", func(t *testing.T) {
		err := svc.Remove(ctx, RemoveOptions{UserBookID: second.ID, CallerID: owner.ID})
		assert.EqualError(t, err, "Book not found.")
	})

	t.Run("non-owner leaves the shelf alone", func(t *testing.T) {
		intruder, _ := createTestBookstore(t, db, "yosomono")
		err := svc.Remove(ctx, RemoveOptions{UserBookID: first.ID, CallerID: intruder.ID})
		assert.EqualError(t, err, "You don't own this bookstore is not allowed.")

		ids := shelfOrder(t, db, bookstore.ID)
		assert.Equal(t, []int{first.ID, third.ID}, ids)
	})
}

func TestReorder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner, bookstore := createTestBookstore(t, db, "honya")
	first := addShelfEntry(t, db, bookstore.ID, "4101010137", 1)
	second := addShelfEntry(t, db, bookstore.ID, "4087520323", 2)
	third := addShelfEntry(t, db, bookstore.ID, "4575248525", 3)

	t.Run("valid permutation", func(t *testing.T) {
		err := svc.Reorder(ctx, ReorderOptions{
			BookstoreID: bookstore.ID,
			CallerID:    owner.ID,
			UserBookIDs: []int{third.ID, first.ID, second.ID},
		})
		require.NoError(t, err)

		ids := shelfOrder(t, db, bookstore.ID)
		assert.Equal(t, []int{third.ID, first.ID, second.ID}, ids)
	})

	t.Run("foreign id leaves the order untouched", func(t *testing.T) {
		_, otherStore := createTestBookstore(t, db, "tonari")
		foreign := addShelfEntry(t, db, otherStore.ID, "4041026222", 1)

		err := svc.Reorder(ctx, ReorderOptions{
			BookstoreID: bookstore.ID,
			CallerID:    owner.ID,
			UserBookIDs: []int{foreign.ID, first.ID, second.ID},
		})
		assert.EqualError(t, err, "Shelf entry not found.")

		ids := shelfOrder(t, db, bookstore.ID)
		assert.Equal(t, []int{third.ID, first.ID, second.ID}, ids)
	})

	t.Run("incomplete list is rejected", func(t *testing.T) {
		err := svc.Reorder(ctx, ReorderOptions{
			BookstoreID: bookstore.ID,
			CallerID:    owner.ID,
			UserBookIDs: []int{first.ID, second.ID},
		})
		assert.Error(t, err)

		ids := shelfOrder(t, db, bookstore.ID)
		assert.Equal(t, []int{third.ID, first.ID, second.ID}, ids)
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		err := svc.Reorder(ctx, ReorderOptions{
			BookstoreID: bookstore.ID,
			CallerID:    owner.ID,
			UserBookIDs: []int{first.ID, first.ID, second.ID},
		})
		assert.Error(t, err)
	})

	t.Run("non-owner", func(t *testing.T) {
		intruder, _ := createTestBookstore(t, db, "yosomono")
		err := svc.Reorder(ctx, ReorderOptions{
			BookstoreID: bookstore.ID,
			CallerID:    intruder.ID,
			UserBookIDs: []int{third.ID, first.ID, second.ID},
		})
		assert.EqualError(t, err, "You don't own this bookstore is not allowed.")
	})

	t.Run("unknown bookstore", func(t *testing.T) {
		err := svc.Reorder(ctx, ReorderOptions{
			BookstoreID: 9999,
			CallerID:    owner.ID,
			UserBookIDs: []int{first.ID},
		})
		assert.EqualError(t, err, "Bookstore not found.")
	})
}
