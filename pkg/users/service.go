package users

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/errcodes"
	"github.com/sassamahha/shotenme/pkg/models"
	"github.com/uptrace/bun"
)

// Service handles user profile and account operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// Retrieve gets a user by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("User")
	}
	return user, nil
}

type UpdateProfileOptions struct {
	UserID      int
	Handle      *string
	DisplayName *string
}

// UpdateProfile updates the public-facing profile fields.
func (s *Service) UpdateProfile(ctx context.Context, opts UpdateProfileOptions) (*models.User, error) {
	user, err := s.Retrieve(ctx, opts.UserID)
	if err != nil {
		return nil, err
	}

	columns := []string{}
	if opts.Handle != nil {
		if *opts.Handle != "" {
			taken, err := s.db.NewSelect().
				Model((*models.User)(nil)).
				Where("handle = ? COLLATE NOCASE", *opts.Handle).
				Where("id != ?", opts.UserID).
				Exists(ctx)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			if taken {
				return nil, errcodes.ValidationError("Handle already exists")
			}
		}
		user.Handle = opts.Handle
		columns = append(columns, "handle")
	}
	if opts.DisplayName != nil {
		user.DisplayName = opts.DisplayName
		columns = append(columns, "display_name")
	}

	if len(columns) == 0 {
		return user, nil
	}

	user.UpdatedAt = time.Now()
	_, err = s.db.NewUpdate().
		Model(user).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return user, nil
}

type UpdateAccountOptions struct {
	UserID int

	Email *string

	// Password change requires the current password.
	CurrentPassword *string
	NewPassword     *string

	// SetAmazonAssociateTag distinguishes "clear the tag" from "leave it
	// alone". The tag is only honored for pro users; everyone else gets
	// the service default tag on outbound links.
	SetAmazonAssociateTag bool
	AmazonAssociateTag    *string
}

// UpdateAccount updates credentials and monetization settings.
func (s *Service) UpdateAccount(ctx context.Context, opts UpdateAccountOptions) (*models.User, error) {
	user, err := s.Retrieve(ctx, opts.UserID)
	if err != nil {
		return nil, err
	}

	columns := []string{}

	if opts.Email != nil {
		if *opts.Email != "" {
			taken, err := s.db.NewSelect().
				Model((*models.User)(nil)).
				Where("email = ? COLLATE NOCASE", *opts.Email).
				Where("id != ?", opts.UserID).
				Exists(ctx)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			if taken {
				return nil, errcodes.ValidationError("Email already exists")
			}
		}
		user.Email = opts.Email
		columns = append(columns, "email")
	}

	if opts.NewPassword != nil {
		if opts.CurrentPassword == nil || !auth.CheckPassword(*opts.CurrentPassword, user.PasswordHash) {
			return nil, errcodes.ValidationError("Current password is incorrect")
		}
		hashed, err := auth.HashPassword(*opts.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
		columns = append(columns, "password_hash")
	}

	if opts.SetAmazonAssociateTag {
		tag := opts.AmazonAssociateTag
		if !user.IsPro {
			tag = nil
		}
		user.AmazonAssociateTag = tag
		columns = append(columns, "amazon_associate_tag")
	}

	if len(columns) == 0 {
		return user, nil
	}

	user.UpdatedAt = time.Now()
	_, err = s.db.NewUpdate().
		Model(user).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return user, nil
}
