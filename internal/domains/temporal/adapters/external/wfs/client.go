// Package wfs samples temporal property values from a WFS 2.0 endpoint.
package wfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/Apurer/wfs-temporal/internal/domains/temporal/domain"
)

const (
	// Namespace of WFS 2.0 response documents.
	Namespace    = "http://www.opengis.net/wfs/2.0"
	owsNamespace = "http://www.opengis.net/ows/1.1"

	defaultMaxFeatures = 100
	maxResponseBytes   = 16 << 20
)

// ErrExceptionReport signals the service answered with an OWS exception report.
var ErrExceptionReport = errors.New("wfs exception report")

// Client issues GetPropertyValue requests against one WFS endpoint.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxFeatures int
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRateLimit caps outbound requests per second; rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxFeatures bounds the number of values requested per property.
func WithMaxFeatures(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxFeatures = n
		}
	}
}

// NewClient instantiates the WFS client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("wfs base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse wfs base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("wfs base URL must be http or https, got %q", baseURL)
	}
	c := &Client{
		baseURL:     parsed,
		httpClient:  &http.Client{Timeout: 30 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		maxFeatures: defaultMaxFeatures,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// GetPropertyValue returns the value elements of every wfs:member, in document order.
// Members without an element child (nil or by-reference values) are skipped.
func (c *Client) GetPropertyValue(ctx context.Context, featureType domain.FeatureType, valueReference domain.QName) ([]*etree.Element, error) {
	if c == nil || c.baseURL == nil {
		return nil, errors.New("wfs client not configured")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.propertyValueURL(featureType, valueReference), nil)
	if err != nil {
		return nil, fmt.Errorf("build GetPropertyValue request: %w", err)
	}
	req.Header.Set("Accept", "application/gml+xml; version=3.2, text/xml")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call wfs GetPropertyValue: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read wfs response: %w", err)
	}

	doc := etree.NewDocument()
	parseErr := doc.ReadFromBytes(body)
	root := doc.Root()
	if parseErr == nil && root != nil && root.Tag == "ExceptionReport" {
		return nil, fmt.Errorf("%w: %s", ErrExceptionReport, exceptionText(root))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wfs GetPropertyValue unexpected status: %s", resp.Status)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("decode wfs response: %w", parseErr)
	}
	if root == nil || root.Tag != "ValueCollection" || root.NamespaceURI() != Namespace {
		return nil, errors.New("wfs response is not a wfs:ValueCollection")
	}
	values := make([]*etree.Element, 0, len(root.ChildElements()))
	for _, member := range root.ChildElements() {
		if member.Tag != "member" || member.NamespaceURI() != Namespace {
			continue
		}
		children := member.ChildElements()
		if len(children) == 0 {
			continue
		}
		values = append(values, children[0])
	}
	return values, nil
}

func (c *Client) propertyValueURL(featureType domain.FeatureType, valueReference domain.QName) string {
	prefixes := map[string]string{}
	var declarations []string
	prefixed := func(name domain.QName) string {
		if name.Space == "" {
			return name.Local
		}
		prefix, ok := prefixes[name.Space]
		if !ok {
			prefix = "ns" + strconv.Itoa(len(prefixes))
			prefixes[name.Space] = prefix
			declarations = append(declarations, "xmlns("+prefix+","+name.Space+")")
		}
		return prefix + ":" + name.Local
	}

	query := c.baseURL.Query()
	query.Set("service", "WFS")
	query.Set("version", "2.0.0")
	query.Set("request", "GetPropertyValue")
	query.Set("typeNames", prefixed(featureType))
	query.Set("valueReference", prefixed(valueReference))
	query.Set("count", strconv.Itoa(c.maxFeatures))
	if len(declarations) > 0 {
		query.Set("namespaces", strings.Join(declarations, ","))
	}
	target := *c.baseURL
	target.RawQuery = query.Encode()
	return target.String()
}

func exceptionText(report *etree.Element) string {
	var texts []string
	for _, exception := range report.ChildElements() {
		code := exception.SelectAttrValue("exceptionCode", "")
		for _, text := range exception.ChildElements() {
			if text.Tag == "ExceptionText" && text.NamespaceURI() == owsNamespace {
				texts = append(texts, strings.TrimSpace(text.Text()))
			}
		}
		if len(texts) == 0 && code != "" {
			texts = append(texts, code)
		}
	}
	if len(texts) == 0 {
		return "no exception text"
	}
	return strings.Join(texts, "; ")
}
