package userbooks

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/errcodes"
	"github.com/sassamahha/shotenme/pkg/models"
	"github.com/sassamahha/shotenme/pkg/revalidate"
	"github.com/uptrace/bun"
)

type Service struct {
	db       *bun.DB
	notifier *revalidate.Notifier
}

func NewService(db *bun.DB, notifier *revalidate.Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// retrieveOwned loads an association with its bookstore and enforces the
// shelf-level ownership rule: missing rows are 404, rows on someone else's
// shelf are 403.
func (svc *Service) retrieveOwned(ctx context.Context, userBookID, callerID int) (*models.UserBook, error) {
	userBook := &models.UserBook{}
	err := svc.db.NewSelect().
		Model(userBook).
		Relation("Bookstore").
		Relation("Book").
		Where("ub.id = ?", userBookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}
	if userBook.Bookstore.OwnerID != callerID {
		return nil, errcodes.Forbidden("You don't own this bookstore")
	}
	return userBook, nil
}

type UpdateOptions struct {
	UserBookID int
	CallerID   int

	// Association fields.
	Comment  *string
	IsPublic *bool

	// Catalog fields. The book row is shared across bookstores, so edits
	// here are last-writer-wins for everyone listing the same book.
	Title    *string
	Author   *string
	ImageURL *string
}

func (svc *Service) Update(ctx context.Context, opts UpdateOptions) (*models.UserBook, error) {
	userBook, err := svc.retrieveOwned(ctx, opts.UserBookID, opts.CallerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	associationColumns := []string{}
	if opts.Comment != nil {
		userBook.Comment = opts.Comment
		associationColumns = append(associationColumns, "comment")
	}
	if opts.IsPublic != nil {
		userBook.IsPublic = *opts.IsPublic
		associationColumns = append(associationColumns, "is_public")
	}

	bookColumns := []string{}
	if opts.Title != nil && *opts.Title != "" {
		userBook.Book.Title = *opts.Title
		bookColumns = append(bookColumns, "title")
	}
	if opts.Author != nil && *opts.Author != "" {
		userBook.Book.Author = *opts.Author
		bookColumns = append(bookColumns, "author")
	}
	if opts.ImageURL != nil {
		userBook.Book.ImageURL = opts.ImageURL
		bookColumns = append(bookColumns, "image_url")
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if len(associationColumns) > 0 {
			userBook.UpdatedAt = now
			_, err := tx.NewUpdate().
				Model(userBook).
				Column(append(associationColumns, "updated_at")...).
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		if len(bookColumns) > 0 {
			userBook.Book.UpdatedAt = now
			_, err := tx.NewUpdate().
				Model(userBook.Book).
				Column(append(bookColumns, "updated_at")...).
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.notifyShelf(userBook.Bookstore)
	return userBook, nil
}

type RemoveOptions struct {
	UserBookID int
	CallerID   int
}

// Remove deletes an association and renumbers the remaining shelf entries
// back to a dense 1..N, all in one transaction.
func (svc *Service) Remove(ctx context.Context, opts RemoveOptions) error {
	userBook, err := svc.retrieveOwned(ctx, opts.UserBookID, opts.CallerID)
	if err != nil {
		return err
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.UserBook)(nil)).
			Where("id = ?", userBook.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return svc.renumber(ctx, tx, userBook.BookstoreID)
	})
	if err != nil {
		return err
	}

	svc.notifyShelf(userBook.Bookstore)
	return nil
}

// renumber rewrites the bookstore's sort_order values to 1..N, keeping the
// current relative order.
func (svc *Service) renumber(ctx context.Context, tx bun.Tx, bookstoreID int) error {
	remaining := []*models.UserBook{}
	err := tx.NewSelect().
		Model(&remaining).
		Column("ub.id").
		Where("ub.bookstore_id = ?", bookstoreID).
		Order("ub.sort_order ASC").
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	now := time.Now()
	for i, ub := range remaining {
		_, err := tx.NewUpdate().
			Model((*models.UserBook)(nil)).
			Set("sort_order = ?", i+1).
			Set("updated_at = ?", now).
			Where("id = ?", ub.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

type ReorderOptions struct {
	BookstoreID int
	CallerID    int
	UserBookIDs []int // Desired order, first entry becomes sort_order 1.
}

// Reorder rewrites the whole shelf's ordering in one shot. The ID list must
// cover the bookstore's associations exactly; a stale list (an entry was
// added or removed since the client loaded the shelf) is rejected without
// touching the current order.
func (svc *Service) Reorder(ctx context.Context, opts ReorderOptions) error {
	bookstore := &models.Bookstore{}
	err := svc.db.NewSelect().
		Model(bookstore).
		Where("bs.id = ?", opts.BookstoreID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Bookstore")
		}
		return errors.WithStack(err)
	}
	if bookstore.OwnerID != opts.CallerID {
		return errcodes.Forbidden("You don't own this bookstore")
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		total, err := tx.NewSelect().
			Model((*models.UserBook)(nil)).
			Where("bookstore_id = ?", opts.BookstoreID).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		var matched int
		if len(opts.UserBookIDs) > 0 {
			matched, err = tx.NewSelect().
				Model((*models.UserBook)(nil)).
				Where("bookstore_id = ?", opts.BookstoreID).
				Where("id IN (?)", bun.In(opts.UserBookIDs)).
				Count(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		// Foreign or duplicate IDs shrink matched; missing IDs shrink the
		// list. Either way the list doesn't describe this shelf anymore.
		if matched != total || len(opts.UserBookIDs) != total {
			return errcodes.NotFound("Shelf entry")
		}

		now := time.Now()
		for i, id := range opts.UserBookIDs {
			_, err := tx.NewUpdate().
				Model((*models.UserBook)(nil)).
				Set("sort_order = ?", i+1).
				Set("updated_at = ?", now).
				Where("id = ?", id).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	svc.notifyShelf(bookstore)
	return nil
}

func (svc *Service) notifyShelf(bookstore *models.Bookstore) {
	if bookstore != nil && bookstore.Handle != nil {
		svc.notifier.ShelfUpdated(*bookstore.Handle)
	}
}
