package bookstores

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

// trimBio truncates a bio to the display limit. The frontend enforces the
// same limit, so this only matters for raw API callers.
func trimBio(bio *string) *string {
	if bio == nil {
		return nil
	}
	runes := []rune(*bio)
	if len(runes) <= models.BioMaxLength {
		return bio
	}
	trimmed := string(runes[:models.BioMaxLength])
	return &trimmed
}

// handleTaken reports whether another bookstore already uses the handle.
// excludeID skips the bookstore being updated.
func (svc *Service) handleTaken(ctx context.Context, handle string, excludeID *int) (bool, error) {
	q := svc.db.NewSelect().
		Model((*models.Bookstore)(nil)).
		Where("handle = ? COLLATE NOCASE", handle)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	exists, err := q.Exists(ctx)
	return exists, errors.WithStack(err)
}

type CreateBookstoreOptions struct {
	OwnerID     int
	Handle      *string
	Title       *string
	DisplayName *string
	Bio         *string
	Theme       string
}

func (svc *Service) Create(ctx context.Context, opts CreateBookstoreOptions) (*models.Bookstore, error) {
	if opts.Handle != nil && *opts.Handle != "" {
		taken, err := svc.handleTaken(ctx, *opts.Handle, nil)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errcodes.ValidationError("Handle already exists")
		}
	}

	theme := opts.Theme
	if theme == "" {
		theme = models.DefaultTheme
	}

	now := time.Now()
	bookstore := &models.Bookstore{
		CreatedAt:   now,
		UpdatedAt:   now,
		OwnerID:     opts.OwnerID,
		Handle:      opts.Handle,
		Title:       opts.Title,
		DisplayName: opts.DisplayName,
		Bio:         trimBio(opts.Bio),
		Theme:       theme,
	}

	_, err := svc.db.
		NewInsert().
		Model(bookstore).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return bookstore, nil
}

type RetrieveBookstoreOptions struct {
	ID     *int
	Handle *string

	// WithBooks loads the shelf's associations ordered by sort_order.
	// PublicOnly additionally filters out private entries.
	WithBooks  bool
	PublicOnly bool
}

func (svc *Service) Retrieve(ctx context.Context, opts RetrieveBookstoreOptions) (*models.Bookstore, error) {
	bookstore := &models.Bookstore{}

	q := svc.db.
		NewSelect().
		Model(bookstore).
		Relation("Owner")

	if opts.ID != nil {
		q = q.Where("bs.id = ?", *opts.ID)
	}
	if opts.Handle != nil {
		q = q.Where("bs.handle = ? COLLATE NOCASE", *opts.Handle)
	}

	if opts.WithBooks {
		q = q.Relation("UserBooks", func(sq *bun.SelectQuery) *bun.SelectQuery {
			if opts.PublicOnly {
				sq = sq.Where("is_public = ?", true)
			}
			return sq.Order("sort_order ASC")
		}).Relation("UserBooks.Book")
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Bookstore")
		}
		return nil, errors.WithStack(err)
	}

	return bookstore, nil
}

type ListBookstoresOptions struct {
	OwnerID int
}

func (svc *Service) List(ctx context.Context, opts ListBookstoresOptions) ([]*models.Bookstore, error) {
	bookstores := []*models.Bookstore{}

	err := svc.db.
		NewSelect().
		Model(&bookstores).
		Where("bs.owner_id = ?", opts.OwnerID).
		Order("bs.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return bookstores, nil
}

type UpdateBookstoreOptions struct {
	Columns []string
}

func (svc *Service) Update(ctx context.Context, bookstore *models.Bookstore, opts UpdateBookstoreOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "handle" && bookstore.Handle != nil && *bookstore.Handle != "" {
			taken, err := svc.handleTaken(ctx, *bookstore.Handle, &bookstore.ID)
			if err != nil {
				return err
			}
			if taken {
				return errcodes.ValidationError("Handle already exists")
			}
		}
		if col == "bio" {
			bookstore.Bio = trimBio(bookstore.Bio)
		}
	}

	bookstore.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.NewUpdate().
		Model(bookstore).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if bookstore.Handle != nil {
		svc.notifier.ShelfUpdated(*bookstore.Handle)
	}

	return nil
}

// Delete removes a bookstore and its shelf entries. The shared book catalog
// rows stay behind since other bookstores may reference them.
func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.UserBook)(nil)).
			Where("bookstore_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Bookstore)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}
