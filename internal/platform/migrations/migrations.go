package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the temporal bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&propertySetRecord{},
		&sampleRecord{},
	)
}

// Candidate schema mirrors the postgres schema registry adapter.
type propertySetRecord struct {
	FeatureType   string         `gorm:"primaryKey;column:feature_type;size:512"`
	PropertyNames pq.StringArray `gorm:"column:property_names;type:text[]"`
	PropertyTypes pq.StringArray `gorm:"column:property_types;type:text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (propertySetRecord) TableName() string { return "temporal_property_sets" }

// Sample schema mirrors the postgres sample store adapter.
type sampleRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	FeatureType string    `gorm:"column:feature_type;size:512;index:idx_temporal_samples_property"`
	Property    string    `gorm:"column:property;size:512;index:idx_temporal_samples_property"`
	Kind        string    `gorm:"column:kind;type:varchar(16)"`
	BeginAt     time.Time `gorm:"column:begin_at"`
	EndAt       time.Time `gorm:"column:end_at"`
	RecordedAt  time.Time `gorm:"column:recorded_at;index"`
}

func (sampleRecord) TableName() string { return "temporal_samples" }
