package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidQName signals a malformed Clark-notation name.
var ErrInvalidQName = errors.New("invalid qualified name")

// QName is a namespace-qualified XML name.
type QName struct {
	Space string
	Local string
}

// FeatureType identifies a WFS feature type.
type FeatureType = QName

// NewQName builds a QName from its parts.
func NewQName(space, local string) QName {
	return QName{Space: strings.TrimSpace(space), Local: strings.TrimSpace(local)}
}

// String renders the name in Clark notation, {namespace}local.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// IsZero reports whether the name has no local part.
func (q QName) IsZero() bool { return q.Local == "" }

// ParseQName reads Clark notation; a bare local name has no namespace.
func ParseQName(raw string) (QName, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return QName{}, fmt.Errorf("%w: empty", ErrInvalidQName)
	}
	if !strings.HasPrefix(raw, "{") {
		if strings.ContainsAny(raw, "{}") {
			return QName{}, fmt.Errorf("%w: %q", ErrInvalidQName, raw)
		}
		return QName{Local: raw}, nil
	}
	end := strings.Index(raw, "}")
	if end < 0 || end == len(raw)-1 {
		return QName{}, fmt.Errorf("%w: %q", ErrInvalidQName, raw)
	}
	return NewQName(raw[1:end], raw[end+1:]), nil
}

// PropertyDescriptor identifies a schema-declared element that may hold
// temporal values. It is owned by the schema collaborator and only compared.
type PropertyDescriptor struct {
	Name QName
	// Type is the declared type, e.g. {http://www.opengis.net/gml/3.2}TimePrimitivePropertyType.
	Type QName
}

func (d PropertyDescriptor) String() string { return d.Name.String() }

// ResolvedExtent pairs a temporal property with the extent found for a feature type.
type ResolvedExtent struct {
	Property PropertyDescriptor
	Extent   Period
}

// Sample is one observed temporal value of a feature type property.
type Sample struct {
	FeatureType FeatureType
	Property    QName
	Value       Primitive
	RecordedAt  time.Time
}
