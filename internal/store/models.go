package store

import "time"

// Hospital represents an analyzed hospital. ExternalKey is derived
// deterministically from the display name and uniquely identifies the
// hospital across runs.
type Hospital struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	ExternalKey string    `gorm:"size:255;uniqueIndex:idx_hospitals_external_key" json:"external_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Hospital model
func (Hospital) TableName() string {
	return "hospitals"
}

// Review represents one persisted classified review. Rows are written once
// under the natural key (hospital_id, text, time_label, sentiment) and
// never mutated afterwards.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	HospitalID uint      `gorm:"not null;index:idx_reviews_hospital" json:"hospital_id"`
	Author     string    `gorm:"size:100" json:"author"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Rating     *float64  `json:"rating,omitempty"`
	TimeLabel  string    `gorm:"size:64" json:"time_label"`
	Sentiment  string    `gorm:"size:16;index:idx_reviews_sentiment" json:"sentiment"`
	StoredAt   time.Time `json:"stored_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
