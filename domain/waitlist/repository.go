package waitlist

import (
	"context"
	"errors"

	"github.com/akeren/go-waitlist-api/internal/models"
	apperrors "github.com/akeren/go-waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

const emailAlreadyRegistered = "email already registered"

type WaitlistRepository interface {
	// CreateEntry persists a new entry. A second entry for the same email
	// yields a conflict error, whether caught by the lookup or by the unique index.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// CountEntries returns the total number of stored entries.
	CountEntries(ctx context.Context) (int64, error)
	// ListRecentEntries returns up to limit entries, newest first.
	ListRecentEntries(ctx context.Context, limit int) ([]*models.WaitlistEntry, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	err := wr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.WaitlistEntry{}).Where("email = ?", entry.Email).Count(&existing).Error; err != nil {
			return apperrors.NewDatabaseError("unable to check existing registration", err)
		}
		if existing > 0 {
			return apperrors.NewConflictError(emailAlreadyRegistered, nil)
		}

		if err := tx.Create(entry).Error; err != nil {
			if isDuplicateKey(err) {
				return apperrors.NewConflictError(emailAlreadyRegistered, err)
			}
			return apperrors.NewDatabaseError("unable to create waitlist entry", err)
		}

		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		// Commit failures surface here unwrapped.
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError(emailAlreadyRegistered, err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	return entry, nil
}

func (wr *waitlistRepository) CountEntries(ctx context.Context) (int64, error) {
	var total int64

	if err := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&total).Error; err != nil {
		return 0, apperrors.NewDatabaseError("unable to count waitlist entries", err)
	}

	return total, nil
}

func (wr *waitlistRepository) ListRecentEntries(ctx context.Context, limit int) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	err := wr.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch recent waitlist entries", err)
	}

	return entries, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
