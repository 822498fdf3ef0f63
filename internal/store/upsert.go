package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lalalalala1357/hospital-review-analysis/internal/sentiment"
)

// placeholderAuthor stands in until author extraction is supported
const placeholderAuthor = "Unknown"

// ExternalKey derives the stable identifier for a hospital display name:
// case-folded, trimmed, spaces replaced with underscores. Distinct names
// normalizing to the same key collide silently.
func ExternalKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// placeholderAddress marks a hospital whose true address is unknown
func placeholderAddress(name string) string {
	return name + "（地址未知）"
}

// SaveAnalysis persists one run's classified reviews for the named
// hospital. The hospital is resolved by external key, created if absent,
// and each review is inserted only when no row with the same natural key
// (hospital, text, time label, sentiment) exists yet. Entity resolution
// and all review inserts share one transaction; re-runs with identical
// content change nothing.
func (s *Store) SaveAnalysis(ctx context.Context, name string, classified []sentiment.ClassifiedReview) error {
	key := ExternalKey(name)
	if key == "" {
		return fmt.Errorf("hospital name must not be empty")
	}

	inserted := 0
	skipped := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hospital, err := s.resolveHospital(tx, name, key)
		if err != nil {
			return err
		}

		for _, cr := range classified {
			created, err := s.insertIfAbsent(tx, hospital.ID, cr)
			if err != nil {
				return err
			}
			if created {
				inserted++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save analysis for %q: %w", name, err)
	}

	s.log.Info().
		Str("hospital", name).
		Int("inserted", inserted).
		Int("skipped", skipped).
		Msg("Analysis persisted")
	return nil
}

// resolveHospital returns the existing hospital for the key or creates it.
// A unique-key violation on create means another writer won the race; the
// winner's row is re-read and used.
func (s *Store) resolveHospital(tx *gorm.DB, name, key string) (*Hospital, error) {
	var hospital Hospital
	err := tx.Where("external_key = ?", key).Take(&hospital).Error
	if err == nil {
		return &hospital, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("resolve hospital: %w", err)
	}

	hospital = Hospital{
		Name:        name,
		Address:     placeholderAddress(name),
		ExternalKey: key,
		CreatedAt:   time.Now(),
	}
	err = tx.Create(&hospital).Error
	if err == nil {
		s.log.Info().Str("hospital", name).Uint("id", hospital.ID).Msg("Hospital created")
		return &hospital, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("create hospital: %w", err)
	}

	// Lost a concurrent-creation race; use the winner's row
	var winner Hospital
	if err := tx.Where("external_key = ?", key).Take(&winner).Error; err != nil {
		return nil, fmt.Errorf("re-resolve hospital after conflict: %w", err)
	}
	return &winner, nil
}

// insertIfAbsent writes the review unless a row with the same natural key
// already exists. The check is explicit rather than delegated to a silent
// conflict mode so the skip is visible and testable.
func (s *Store) insertIfAbsent(tx *gorm.DB, hospitalID uint, cr sentiment.ClassifiedReview) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("hospital_id = ? AND text = ? AND time_label = ? AND sentiment = ?",
			hospitalID, cr.Text, cr.TimeLabel, cr.Sentiment).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	review := Review{
		HospitalID: hospitalID,
		Author:     placeholderAuthor,
		Text:       cr.Text,
		TimeLabel:  cr.TimeLabel,
		Sentiment:  cr.Sentiment,
		StoredAt:   time.Now(),
	}
	if err := tx.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("insert review: %w", err)
	}
	return true, nil
}
