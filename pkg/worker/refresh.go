package worker

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sassamahha/shotenme/pkg/bookmeta"
	"github.com/sassamahha/shotenme/pkg/jobs"
	"github.com/sassamahha/shotenme/pkg/models"
	"github.com/uptrace/bun"
)

// ProcessMetadataRefreshJob re-runs the provider chain for catalog books
// whose metadata is still unresolved and fills in whatever the providers now
// know. Fields a user already edited are left alone.
func (w *Worker) ProcessMetadataRefreshJob(ctx context.Context, job *models.Job) error {
	log := logger.FromContext(ctx)
	log.Info("processing metadata refresh job")

	data, ok := job.DataParsed.(*models.JobMetadataRefreshData)
	if !ok {
		return errors.New("unexpected job data type")
	}

	candidates := []*models.Book{}
	q := w.db.
		NewSelect().
		Model(&candidates).
		Order("b.id ASC")
	if len(data.BookIDs) > 0 {
		q = q.Where("b.id IN (?)", bun.In(data.BookIDs))
	} else {
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("b.title = b.asin").
				WhereOr("b.author = ?", models.NoAuthorPlaceholder).
				WhereOr("b.image_url IS NULL")
		})
	}
	err := q.Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("refreshing books", logger.Data{"count": len(candidates)})

	refreshed := 0
	for i, book := range candidates {
		if w.refreshBook(ctx, book) {
			refreshed++
		}

		progress := (i + 1) * 100 / len(candidates)
		if progress != job.Progress {
			job.Progress = progress
			err := w.jobService.UpdateJob(ctx, job, jobs.UpdateJobOptions{
				Columns: []string{"progress"},
			})
			if err != nil {
				return errors.WithStack(err)
			}
		}
	}

	log.Info("metadata refresh done", logger.Data{"refreshed": refreshed, "skipped": len(candidates) - refreshed})

	return nil
}

func (w *Worker) refreshBook(ctx context.Context, book *models.Book) bool {
	log := logger.FromContext(ctx)

	var meta *bookmeta.Meta
	switch {
	case book.ISBN13 != nil:
		meta = w.resolver.LookupISBN(ctx, *book.ISBN13)
	case book.ISBN10 != nil:
		meta = w.resolver.LookupISBN(ctx, *book.ISBN10)
	default:
		meta = w.resolver.LookupASIN(ctx, book.ASIN)
	}
	if meta == nil {
		return false
	}

	columns := []string{}
	if book.Title == book.ASIN && meta.Title != nil {
		book.Title = *meta.Title
		columns = append(columns, "title")
	}
	if book.Author == models.NoAuthorPlaceholder && meta.Author != nil {
		book.Author = *meta.Author
		columns = append(columns, "author")
	}
	if book.ImageURL == nil && meta.ImageURL != nil {
		book.ImageURL = meta.ImageURL
		columns = append(columns, "image_url")
	}
	if len(columns) == 0 {
		return false
	}

	book.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")

	_, err := w.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		log.Err(err).Error("update book error")
		return false
	}

	return true
}
