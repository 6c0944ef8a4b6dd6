package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`ALTER TABLE users ADD COLUMN is_pro BOOLEAN NOT NULL DEFAULT FALSE`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`ALTER TABLE users ADD COLUMN amazon_associate_tag TEXT`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`ALTER TABLE users DROP COLUMN amazon_associate_tag`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`ALTER TABLE users DROP COLUMN is_pro`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
