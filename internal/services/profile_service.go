package services

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/core/intake"
	"github.com/markdave123-py/Uncouple/internal/models"
)

// ProfileService stores the intake record of each user.
type ProfileService struct {
	db core.DbClient
}

var _ intake.ProfileSaver = (*ProfileService)(nil)

func NewProfileService(db core.DbClient) *ProfileService {
	return &ProfileService{db: db}
}

// Get returns the stored profile, or nil when the user has none yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.db.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Record returns the stored record, or an empty one.
func (s *ProfileService) Record(ctx context.Context, userID string) (models.FormRecord, error) {
	p, err := s.Get(ctx, userID)
	if err != nil || p == nil {
		return models.FormRecord{}, err
	}
	return p.Record, nil
}

// SaveBasicInfo writes only the basic-information section over the stored
// record, leaving the other sections untouched.
func (s *ProfileService) SaveBasicInfo(ctx context.Context, userID string, basic models.FormRecord) error {
	rec, err := s.Record(ctx, userID)
	if err != nil {
		return err
	}
	rec = rec.WithBasicInfo(intake.Normalize(basic))
	return s.db.UpsertProfile(ctx, &models.Profile{UserID: userID, Record: rec})
}

// SaveProfile replaces the whole record.
func (s *ProfileService) SaveProfile(ctx context.Context, userID string, rec models.FormRecord) error {
	return s.db.UpsertProfile(ctx, &models.Profile{UserID: userID, Record: intake.Normalize(rec)})
}
