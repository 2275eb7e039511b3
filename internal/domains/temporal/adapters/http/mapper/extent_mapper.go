package mapper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
	"github.com/Apurer/wfs-temporal/internal/domains/temporal/ports"
)

var errMissingName = errors.New("name is required")

// QName is the HTTP representation of a namespace-qualified name.
type QName struct {
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

// TemporalProperty describes one candidate temporal property of a feature type.
type TemporalProperty struct {
	Namespace     string `json:"namespace,omitempty"`
	Name          string `json:"name"`
	TypeNamespace string `json:"typeNamespace,omitempty"`
	Type          string `json:"type,omitempty"`
}

// TemporalPropertiesRequest replaces the ordered candidates of a feature type.
type TemporalPropertiesRequest struct {
	Properties []TemporalProperty `json:"properties"`
}

// Period is a begin/end pair; offsets are kept as written.
type Period struct {
	Begin   time.Time `json:"begin"`
	End     time.Time `json:"end"`
	Ordered bool      `json:"ordered"`
}

// Primitive is a parsed GML time value. Instant is set for instants, Begin and End for periods.
type Primitive struct {
	Kind    string     `json:"kind"`
	Instant *time.Time `json:"instant,omitempty"`
	Begin   *time.Time `json:"begin,omitempty"`
	End     *time.Time `json:"end,omitempty"`
}

// ResolvedExtent is the response of the temporal-extent endpoint.
type ResolvedExtent struct {
	FeatureType QName            `json:"featureType"`
	Property    TemporalProperty `json:"property"`
	Extent      Period           `json:"extent"`
}

// Sample echoes a recorded value.
type Sample struct {
	FeatureType QName     `json:"featureType"`
	Property    QName     `json:"property"`
	Value       Primitive `json:"value"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// SurveyRequest lists the feature types to survey.
type SurveyRequest struct {
	SurveyID     string  `json:"surveyId,omitempty"`
	FeatureTypes []QName `json:"featureTypes"`
}

// SurveyEntry is the outcome of one feature type.
type SurveyEntry struct {
	FeatureType QName             `json:"featureType"`
	Outcome     string            `json:"outcome"`
	Property    *TemporalProperty `json:"property,omitempty"`
	Extent      *Period           `json:"extent,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// SurveyReport keeps entries in request order.
type SurveyReport struct {
	SurveyID string        `json:"surveyId"`
	Entries  []SurveyEntry `json:"entries"`
}

// ToQName validates and converts a transport name.
func ToQName(input QName) (domain.QName, error) {
	q := domain.NewQName(input.Namespace, input.Name)
	if q.IsZero() {
		return domain.QName{}, errMissingName
	}
	return q, nil
}

// FromQName maps a domain name to its transport form.
func FromQName(q domain.QName) QName {
	return QName{Namespace: q.Space, Name: q.Local}
}

// ToPropertyDescriptors converts the request body, rejecting unnamed properties.
func ToPropertyDescriptors(req TemporalPropertiesRequest) ([]domain.PropertyDescriptor, error) {
	out := make([]domain.PropertyDescriptor, 0, len(req.Properties))
	for i, p := range req.Properties {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("properties[%d]: %w", i, errMissingName)
		}
		out = append(out, domain.PropertyDescriptor{
			Name: domain.NewQName(p.Namespace, p.Name),
			Type: domain.NewQName(p.TypeNamespace, p.Type),
		})
	}
	return out, nil
}

// FromPropertyDescriptor maps a candidate to its transport form.
func FromPropertyDescriptor(d domain.PropertyDescriptor) TemporalProperty {
	return TemporalProperty{
		Namespace:     d.Name.Space,
		Name:          d.Name.Local,
		TypeNamespace: d.Type.Space,
		Type:          d.Type.Local,
	}
}

// FromPeriod maps a domain period.
func FromPeriod(p domain.Period) Period {
	return Period{Begin: p.Begin.Time, End: p.End.Time, Ordered: p.IsOrdered()}
}

// FromPrimitive maps an instant or a period; nil yields the zero value.
func FromPrimitive(value domain.Primitive) Primitive {
	switch v := value.(type) {
	case domain.Instant:
		ts := v.Time
		return Primitive{Kind: string(domain.KindInstant), Instant: &ts}
	case domain.Period:
		begin, end := v.Begin.Time, v.End.Time
		return Primitive{Kind: string(domain.KindPeriod), Begin: &begin, End: &end}
	default:
		return Primitive{}
	}
}

// FromResolvedExtent builds the temporal-extent response.
func FromResolvedExtent(featureType domain.FeatureType, resolved *domain.ResolvedExtent) ResolvedExtent {
	out := ResolvedExtent{FeatureType: FromQName(featureType)}
	if resolved == nil {
		return out
	}
	out.Property = FromPropertyDescriptor(resolved.Property)
	out.Extent = FromPeriod(resolved.Extent)
	return out
}

// FromSample maps a recorded sample.
func FromSample(sample *domain.Sample) Sample {
	if sample == nil {
		return Sample{}
	}
	return Sample{
		FeatureType: FromQName(sample.FeatureType),
		Property:    FromQName(sample.Property),
		Value:       FromPrimitive(sample.Value),
		RecordedAt:  sample.RecordedAt,
	}
}

// ToSurveyInput validates the survey request.
func ToSurveyInput(req SurveyRequest) (ports.SurveyInput, error) {
	input := ports.SurveyInput{SurveyID: strings.TrimSpace(req.SurveyID)}
	if len(req.FeatureTypes) == 0 {
		return ports.SurveyInput{}, errors.New("featureTypes must not be empty")
	}
	input.FeatureTypes = make([]domain.FeatureType, 0, len(req.FeatureTypes))
	for i, ft := range req.FeatureTypes {
		q, err := ToQName(ft)
		if err != nil {
			return ports.SurveyInput{}, fmt.Errorf("featureTypes[%d]: %w", i, err)
		}
		input.FeatureTypes = append(input.FeatureTypes, q)
	}
	return input, nil
}

// FromSurveyReport maps a survey report.
func FromSurveyReport(report *ports.SurveyReport) SurveyReport {
	if report == nil {
		return SurveyReport{Entries: []SurveyEntry{}}
	}
	out := SurveyReport{SurveyID: report.SurveyID, Entries: make([]SurveyEntry, 0, len(report.Entries))}
	for _, entry := range report.Entries {
		item := SurveyEntry{
			FeatureType: FromQName(entry.FeatureType),
			Outcome:     string(entry.Outcome),
			Message:     entry.Message,
		}
		if entry.Resolved != nil {
			property := FromPropertyDescriptor(entry.Resolved.Property)
			extent := FromPeriod(entry.Resolved.Extent)
			item.Property = &property
			item.Extent = &extent
		}
		out.Entries = append(out.Entries, item)
	}
	return out
}
