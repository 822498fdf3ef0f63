// Package store owns the durable side of the pipeline: hospitals and their
// classified reviews in a relational database behind GORM.
package store

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lalalalala1357/hospital-review-analysis/internal/region"
	"github.com/lalalalala1357/hospital-review-analysis/logger"
)

// Store wraps the relational database
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to MySQL and migrates the schema
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return New(db)
}

// New wraps an existing GORM connection and migrates the schema. Tests use
// it with an in-memory database.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Hospital{}, &Review{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{
		db:  db,
		log: logger.ForStore(),
	}, nil
}

// CountBySentiment counts persisted reviews carrying the given label
func (s *Store) CountBySentiment(ctx context.Context, label string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Review{}).
		Where("sentiment = ?", label).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count by sentiment: %w", err)
	}
	return count, nil
}

// HospitalsInRegion lists hospitals, ordered by name, whose stored address
// infers to the given region label.
func (s *Store) HospitalsInRegion(ctx context.Context, regionLabel string) ([]Hospital, error) {
	var all []Hospital
	err := s.db.WithContext(ctx).
		Order("name ASC").
		Find(&all).Error
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}

	var matched []Hospital
	for _, h := range all {
		if region.Infer(h.Address) == regionLabel {
			matched = append(matched, h)
		}
	}
	return matched, nil
}

// HospitalByExternalKey fetches a hospital by its stable external key
func (s *Store) HospitalByExternalKey(ctx context.Context, key string) (*Hospital, error) {
	var h Hospital
	err := s.db.WithContext(ctx).
		Where("external_key = ?", key).
		Take(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ReviewsForHospital fetches all persisted reviews of one hospital
func (s *Store) ReviewsForHospital(ctx context.Context, hospitalID uint) ([]Review, error) {
	var reviews []Review
	err := s.db.WithContext(ctx).
		Where("hospital_id = ?", hospitalID).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
