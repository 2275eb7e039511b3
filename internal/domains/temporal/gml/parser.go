// Package gml converts GML 3.2 time elements into temporal primitives.
package gml

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

// Namespace is the GML 3.2 namespace all lookups are restricted to.
const Namespace = "http://www.opengis.net/gml/3.2"

const (
	timeInstantName  = "TimeInstant"
	timePeriodName   = "TimePeriod"
	timePositionName = "timePosition"
	beginPosName     = "beginPosition"
	endPosName       = "endPosition"
	frameAttr        = "frame"
	iso8601Marker    = "8601"
)

var errNilElement = errors.New("gml time element is nil")

// Option tunes parser leniency.
type Option func(*Parser)

// WithStrictShapes accepts only gml:TimeInstant and gml:TimePeriod; any other
// element fails with UnrecognizedTimeShapeError instead of being read as a period.
func WithStrictShapes() Option {
	return func(p *Parser) {
		p.strictShapes = true
	}
}

// WithUniformFrameValidation applies the reference frame check to periods too.
func WithUniformFrameValidation() Option {
	return func(p *Parser) {
		p.uniformFrames = true
	}
}

// Parser reads GML time elements. The zero value uses the permissive rules:
// anything that is not a TimeInstant is treated as a period and periods skip
// the frame check.
type Parser struct {
	strictShapes  bool
	uniformFrames bool
}

// NewParser builds a parser with the given options applied.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parse is a shorthand for NewParser(opts...).Parse(el).
func Parse(el *etree.Element, opts ...Option) (domain.Primitive, error) {
	return NewParser(opts...).Parse(el)
}

// ParseBytes reads raw XML whose root is the time element.
func (p *Parser) ParseBytes(raw []byte) (domain.Primitive, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return p.Parse(root)
}

// ParseString is ParseBytes for string input.
func (p *Parser) ParseString(raw string) (domain.Primitive, error) {
	return p.ParseBytes([]byte(raw))
}

// Parse converts a time element into an Instant or a Period.
func (p *Parser) Parse(el *etree.Element) (domain.Primitive, error) {
	if el == nil {
		return nil, errNilElement
	}
	if p == nil {
		p = &Parser{}
	}
	if el.Tag == timeInstantName && (!p.strictShapes || el.NamespaceURI() == Namespace) {
		return p.parseInstant(el)
	}
	if p.strictShapes && (el.Tag != timePeriodName || el.NamespaceURI() != Namespace) {
		return nil, &UnrecognizedTimeShapeError{Name: qualifiedName(el)}
	}
	return p.parsePeriod(el)
}

func (p *Parser) parseInstant(el *etree.Element) (domain.Primitive, error) {
	frame := attr(el, frameAttr)
	positions := timePositions(el, 1)
	if len(positions) == 0 {
		return nil, &MissingTimePositionError{Element: qualifiedName(el), Index: 0}
	}
	position := positions[0]
	if inner := attr(position, frameAttr); inner != "" {
		frame = inner
	}
	if err := checkFrame(frame); err != nil {
		return nil, err
	}
	instant, err := parseInstantText(textContent(position))
	if err != nil {
		return nil, err
	}
	return instant, nil
}

func (p *Parser) parsePeriod(el *etree.Element) (domain.Primitive, error) {
	positions, err := p.periodPositions(el)
	if err != nil {
		return nil, err
	}
	outerFrame := attr(el, frameAttr)
	var bounds [2]domain.Instant
	for i, position := range positions {
		if p.uniformFrames {
			frame := outerFrame
			if inner := attr(position, frameAttr); inner != "" {
				frame = inner
			}
			if err := checkFrame(frame); err != nil {
				return nil, err
			}
		}
		instant, err := parseInstantText(textContent(position))
		if err != nil {
			return nil, err
		}
		bounds[i] = instant
	}
	return domain.NewPeriod(bounds[0], bounds[1]), nil
}

// periodPositions returns the begin and end position elements. In strict mode a
// gml:TimePeriod may carry gml:beginPosition and gml:endPosition children; the
// begin/end TimeInstant encoding is read through its timePosition descendants.
func (p *Parser) periodPositions(el *etree.Element) ([]*etree.Element, error) {
	if p.strictShapes {
		begin := gmlChild(el, beginPosName)
		end := gmlChild(el, endPosName)
		switch {
		case begin != nil && end != nil:
			return []*etree.Element{begin, end}, nil
		case begin != nil:
			return nil, &MissingTimePositionError{Element: qualifiedName(el), Index: 1}
		case end != nil:
			return nil, &MissingTimePositionError{Element: qualifiedName(el), Index: 0}
		}
	}
	positions := timePositions(el, 2)
	if len(positions) < 2 {
		return nil, &MissingTimePositionError{Element: qualifiedName(el), Index: len(positions)}
	}
	return positions, nil
}

func gmlChild(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == name && child.NamespaceURI() == Namespace {
			return child
		}
	}
	return nil
}

func checkFrame(frame string) error {
	if frame != "" && !strings.Contains(frame, iso8601Marker) {
		return &UnsupportedReferenceFrameError{Frame: frame}
	}
	return nil
}

// timePositions collects up to limit gml:timePosition descendants in document order.
func timePositions(el *etree.Element, limit int) []*etree.Element {
	found := make([]*etree.Element, 0, limit)
	var walk func(*etree.Element)
	walk = func(parent *etree.Element) {
		for _, child := range parent.ChildElements() {
			if len(found) == limit {
				return
			}
			if child.Tag == timePositionName && child.NamespaceURI() == Namespace {
				found = append(found, child)
			}
			walk(child)
		}
	}
	walk(el)
	return found
}

// attr returns the unprefixed attribute value, or "" when absent.
func attr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

// textContent concatenates all character data below el.
func textContent(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(parent *etree.Element) {
		for _, token := range parent.Child {
			switch t := token.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return b.String()
}

func qualifiedName(el *etree.Element) string {
	if ns := el.NamespaceURI(); ns != "" {
		return "{" + ns + "}" + el.Tag
	}
	return el.Tag
}

var instantLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
}

// localLayouts are accepted only when a bracketed region id supplies the zone.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// parseInstantText accepts an ISO 8601 date-time with offset, optionally
// followed by a bracketed region id such as [Europe/Paris]. With a region id
// the offset may be omitted. The T and Z designators are case-insensitive.
func parseInstantText(text string) (domain.Instant, error) {
	value := strings.TrimSpace(text)
	var loc *time.Location
	if strings.HasSuffix(value, "]") {
		open := strings.LastIndex(value, "[")
		if open <= 0 {
			return domain.Instant{}, &InvalidInstantFormatError{Text: text}
		}
		zone := value[open+1 : len(value)-1]
		value = value[:open]
		if zone == "" || strings.EqualFold(zone, "local") {
			return domain.Instant{}, &InvalidInstantFormatError{Text: text}
		}
		var err error
		if loc, err = time.LoadLocation(zone); err != nil {
			return domain.Instant{}, &InvalidInstantFormatError{Text: text}
		}
	}
	value = strings.ToUpper(value)
	for _, layout := range instantLayouts {
		ts, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if loc != nil {
			ts = ts.In(loc)
		}
		return domain.NewInstant(ts), nil
	}
	if loc != nil {
		for _, layout := range localLayouts {
			if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
				return domain.NewInstant(ts), nil
			}
		}
	}
	return domain.Instant{}, &InvalidInstantFormatError{Text: text}
}
