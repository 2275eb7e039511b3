package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var _ ports.SampleStore = (*SampleStore)(nil)

// SampleStore persists temporal samples and aggregates extents in SQL.
// Stored instants keep their position on the time line, not their original offset.
type SampleStore struct {
	db *gorm.DB
}

// NewSampleStore wires a PostgreSQL-backed sample store. Caller manages DB lifecycle.
func NewSampleStore(db *gorm.DB) *SampleStore {
	return &SampleStore{db: db}
}

// sampleRecord keeps instants as degenerate periods so MIN/MAX cover both shapes.
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

type extentRow struct {
	Samples  int64
	Earliest *time.Time
	Latest   *time.Time
}

func (s *SampleStore) Record(ctx context.Context, sample domain.Sample) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if sample.Value == nil {
		return errors.New("sample value is nil")
	}
	begin, end := sample.Value.Bounds()
	record := sampleRecord{
		FeatureType: sample.FeatureType.String(),
		Property:    sample.Property.String(),
		Kind:        string(sample.Value.Kind()),
		BeginAt:     begin.Time.UTC(),
		EndAt:       end.Time.UTC(),
		RecordedAt:  sample.RecordedAt,
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(&record).Error
}

func (s *SampleStore) GetExtent(ctx context.Context, featureType domain.FeatureType, property domain.PropertyDescriptor) (domain.Period, error) {
	if err := s.ensureDB(); err != nil {
		return domain.Period{}, err
	}
	var row extentRow
	err := s.db.WithContext(ctx).
		Model(&sampleRecord{}).
		Select("COUNT(*) AS samples, MIN(begin_at) AS earliest, MAX(end_at) AS latest").
		Where("feature_type = ? AND property = ?", featureType.String(), property.Name.String()).
		Scan(&row).Error
	if err != nil {
		return domain.Period{}, err
	}
	if row.Samples == 0 || row.Earliest == nil || row.Latest == nil {
		return domain.Period{}, fmt.Errorf("%w: %s of %s", ports.ErrNoValues, property, featureType)
	}
	return domain.NewPeriod(domain.NewInstant(row.Earliest.UTC()), domain.NewInstant(row.Latest.UTC())), nil
}

func (s *SampleStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres sample store not configured")
	}
	return nil
}
