package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var _ ports.SchemaRegistry = (*SchemaRegistry)(nil)

// SchemaRegistry persists ordered temporal property candidates in PostgreSQL using GORM.
type SchemaRegistry struct {
	db *gorm.DB
}

// NewSchemaRegistry wires a PostgreSQL-backed registry. Caller manages DB lifecycle.
func NewSchemaRegistry(db *gorm.DB) *SchemaRegistry {
	return &SchemaRegistry{db: db}
}

// propertySetRecord stores one feature type's candidates as parallel arrays in Clark notation.
type propertySetRecord struct {
	FeatureType   string         `gorm:"primaryKey;column:feature_type;size:512"`
	PropertyNames pq.StringArray `gorm:"column:property_names;type:text[]"`
	PropertyTypes pq.StringArray `gorm:"column:property_types;type:text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (propertySetRecord) TableName() string { return "temporal_property_sets" }

func (r *SchemaRegistry) TemporalProperties(ctx context.Context, featureType domain.FeatureType) ([]domain.PropertyDescriptor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record propertySetRecord
	if err := r.db.WithContext(ctx).First(&record, "feature_type = ?", featureType.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *SchemaRegistry) Register(ctx context.Context, featureType domain.FeatureType, properties []domain.PropertyDescriptor) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(properties) == 0 {
		return r.db.WithContext(ctx).Delete(&propertySetRecord{}, "feature_type = ?", featureType.String()).Error
	}
	record := toPropertySetRecord(featureType, properties)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "feature_type"}},
			DoUpdates: clause.Assignments(map[string]any{
				"property_names": record.PropertyNames,
				"property_types": record.PropertyTypes,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (r *SchemaRegistry) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres schema registry not configured")
	}
	return nil
}

func toPropertySetRecord(featureType domain.FeatureType, properties []domain.PropertyDescriptor) propertySetRecord {
	rec := propertySetRecord{
		FeatureType:   featureType.String(),
		PropertyNames: make(pq.StringArray, 0, len(properties)),
		PropertyTypes: make(pq.StringArray, 0, len(properties)),
	}
	for _, property := range properties {
		rec.PropertyNames = append(rec.PropertyNames, property.Name.String())
		rec.PropertyTypes = append(rec.PropertyTypes, property.Type.String())
	}
	return rec
}

func (r propertySetRecord) toDomain() ([]domain.PropertyDescriptor, error) {
	properties := make([]domain.PropertyDescriptor, 0, len(r.PropertyNames))
	for i, rawName := range r.PropertyNames {
		name, err := domain.ParseQName(rawName)
		if err != nil {
			return nil, fmt.Errorf("stored property %d of %s: %w", i, r.FeatureType, err)
		}
		descriptor := domain.PropertyDescriptor{Name: name}
		if i < len(r.PropertyTypes) && r.PropertyTypes[i] != "" {
			typeName, err := domain.ParseQName(r.PropertyTypes[i])
			if err != nil {
				return nil, fmt.Errorf("stored property type %d of %s: %w", i, r.FeatureType, err)
			}
			descriptor.Type = typeName
		}
		properties = append(properties, descriptor)
	}
	return properties, nil
}
