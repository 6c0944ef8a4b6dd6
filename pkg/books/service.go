package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/bookmeta"
	"github.com/sassamahha/shotenme/pkg/errcodes"
	"github.com/sassamahha/shotenme/pkg/isbn"
	"github.com/sassamahha/shotenme/pkg/models"
	"github.com/sassamahha/shotenme/pkg/revalidate"
	"github.com/uptrace/bun"
)

// Add modes. The mode tells us which input field carries the identifier.
const (
	ModeISBN = "isbn"
	ModeASIN = "asin"
	ModeURL  = "url"
)

// MetaResolver is the metadata lookup the service depends on. Satisfied by
// bookmeta.Resolver.
type MetaResolver interface {
	LookupISBN(ctx context.Context, isbn string) *bookmeta.Meta
	LookupASIN(ctx context.Context, asin string) *bookmeta.Meta
}

type Service struct {
	db       *bun.DB
	resolver MetaResolver
	notifier *revalidate.Notifier
}

func NewService(db *bun.DB, resolver MetaResolver, notifier *revalidate.Notifier) *Service {
	return &Service{db: db, resolver: resolver, notifier: notifier}
}

// identity is the resolved canonical key plus any ISBN forms derived along
// the way.
type identity struct {
	ASIN   string
	ISBN10 *string
	ISBN13 *string
}

// resolveIdentity maps the mode-specific input onto a canonical ASIN. For
// ISBN input the canonical key prefers the ISBN-10 form since that is what
// Amazon uses as the ASIN for print books.
func resolveIdentity(opts AddBookOptions) (*identity, error) {
	switch opts.Mode {
	case ModeISBN:
		isbn10, isbn13 := isbn.Normalize(opts.ISBN)
		if isbn10 == "" && isbn13 == "" {
			return nil, errcodes.ValidationError("Invalid ISBN")
		}
		id := &identity{}
		if isbn10 != "" {
			id.ASIN = isbn10
			id.ISBN10 = &isbn10
		} else {
			id.ASIN = isbn13
		}
		if isbn13 != "" {
			id.ISBN13 = &isbn13
		}
		return id, nil

	case ModeASIN:
		asin := strings.ToUpper(strings.TrimSpace(opts.ASIN))
		if asin == "" {
			return nil, errcodes.ValidationError("ASIN is required")
		}
		return identityFromASIN(asin), nil

	case ModeURL:
		asin := isbn.ParseASINFromURL(opts.URL)
		if asin == "" {
			return nil, errcodes.ValidationError("Could not find an ASIN in that URL")
		}
		return identityFromASIN(asin), nil

	default:
		return nil, errcodes.ValidationError("Invalid mode")
	}
}

func identityFromASIN(asin string) *identity {
	id := &identity{ASIN: asin}
	if converted := isbn.ASINToISBN(asin); converted != "" {
		isbn10, isbn13 := isbn.Normalize(converted)
		if isbn10 != "" {
			id.ISBN10 = &isbn10
		}
		if isbn13 != "" {
			id.ISBN13 = &isbn13
		}
	}
	return id
}

type AddBookOptions struct {
	BookstoreID int
	CallerID    int

	Mode string
	ISBN string
	ASIN string
	URL  string

	// Optional user-supplied metadata; wins over provider metadata.
	Title    *string
	Author   *string
	ImageURL *string

	Comment  *string
	IsPublic bool
}

// AddBook resolves the identifier to a canonical book, fetches whatever
// metadata is still missing, and appends the book to the bookstore's shelf.
// The catalog row is shared across all bookstores; adding a book another
// user already added reuses (and refreshes) their row.
func (svc *Service) AddBook(ctx context.Context, opts AddBookOptions) (*models.UserBook, error) {
	bookstore := &models.Bookstore{}
	err := svc.db.NewSelect().
		Model(bookstore).
		Where("bs.id = ?", opts.BookstoreID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Bookstore")
		}
		return nil, errors.WithStack(err)
	}
	if bookstore.OwnerID != opts.CallerID {
		return nil, errcodes.Forbidden("You don't own this bookstore")
	}

	id, err := resolveIdentity(opts)
	if err != nil {
		return nil, err
	}

	title := opts.Title
	author := opts.Author
	imageURL := opts.ImageURL

	// Only hit the providers when the user left something blank.
	if title == nil || author == nil || imageURL == nil {
		var meta *bookmeta.Meta
		if opts.Mode == ModeISBN {
			lookup := ""
			if id.ISBN13 != nil {
				lookup = *id.ISBN13
			} else if id.ISBN10 != nil {
				lookup = *id.ISBN10
			}
			if lookup != "" {
				meta = svc.resolver.LookupISBN(ctx, lookup)
			}
		} else {
			meta = svc.resolver.LookupASIN(ctx, id.ASIN)
		}
		if meta != nil {
			if title == nil {
				title = meta.Title
			}
			if author == nil {
				author = meta.Author
			}
			if imageURL == nil {
				imageURL = meta.ImageURL
			}
		}
	}

	book := &models.Book{
		ASIN:     id.ASIN,
		ISBN10:   id.ISBN10,
		ISBN13:   id.ISBN13,
		Title:    id.ASIN,
		Author:   models.NoAuthorPlaceholder,
		ImageURL: imageURL,
	}
	if title != nil && *title != "" {
		book.Title = *title
	}
	if author != nil && *author != "" {
		book.Author = *author
	}

	userBook := &models.UserBook{
		BookstoreID: opts.BookstoreID,
		Comment:     opts.Comment,
		IsPublic:    opts.IsPublic,
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()
		book.CreatedAt = now
		book.UpdatedAt = now

		// Upsert by asin, always refreshing metadata so the shared catalog
		// row converges on the latest lookup.
		_, err := tx.NewInsert().
			Model(book).
			On("CONFLICT (asin) DO UPDATE").
			Set("title = EXCLUDED.title").
			Set("author = EXCLUDED.author").
			Set("image_url = EXCLUDED.image_url").
			Set("isbn10 = EXCLUDED.isbn10").
			Set("isbn13 = EXCLUDED.isbn13").
			Set("updated_at = EXCLUDED.updated_at").
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		var maxSortOrder int
		err = tx.NewSelect().
			Model((*models.UserBook)(nil)).
			ColumnExpr("COALESCE(MAX(sort_order), 0)").
			Where("bookstore_id = ?", opts.BookstoreID).
			Scan(ctx, &maxSortOrder)
		if err != nil {
			return errors.WithStack(err)
		}

		userBook.CreatedAt = now
		userBook.UpdatedAt = now
		userBook.BookID = book.ID
		userBook.SortOrder = maxSortOrder + 1

		// Every add appends a new association, even for a book already on the
		// shelf. Duplicates are legal; each gets its own entry at the end.
		_, err = tx.NewInsert().
			Model(userBook).
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	if bookstore.Handle != nil {
		svc.notifier.ShelfUpdated(*bookstore.Handle)
	}

	userBook.Book = book
	return userBook, nil
}

type RetrieveBookOptions struct {
	ID int
}

func (svc *Service) Retrieve(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}
	err := svc.db.NewSelect().
		Model(book).
		Where("b.id = ?", opts.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}
	return book, nil
}
