package fetcher

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"heating_monitor/internal/models"
)

const (
	variablePath    = "/user/var/"
	maxResponseBody = 64 << 10 // 64 KB, a variable document is a few hundred bytes
	valueElement    = "value"
)

// valueDoc is the value element of a controller response, e.g.
//
//	<value uri="/user/var/112/10021/0/0/12161" strValue="65" unit="°C" scaleFactor="10">652</value>
type valueDoc struct {
	URI      string `xml:"uri,attr"`
	StrValue string `xml:"strValue,attr"`
	Unit     string `xml:"unit,attr"`
	Text     string `xml:",chardata"`
}

// HTTPFetcher reads variables from the controller REST interface.
type HTTPFetcher struct {
	client *http.Client
	now    func() time.Time
}

// NewHTTPFetcher uses client for requests; nil means http.DefaultClient.
// Deadlines come from the caller's context.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client, now: time.Now}
}

// VariableURL builds {baseURL}/user/var/{address}.
func VariableURL(baseURL, address string) string {
	return strings.TrimRight(baseURL, "/") + variablePath + strings.TrimLeft(address, "/")
}

// Fetch issues one GET and parses the value element. No retries.
func (f *HTTPFetcher) Fetch(ctx context.Context, address string, cfg models.Config) (models.Reading, error) {
	fail := func(status int, err error) (models.Reading, error) {
		return models.Reading{}, &FetchError{Address: address, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, VariableURL(cfg.BaseURL, address), nil)
	if err != nil {
		return fail(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("fetch failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return fail(resp.StatusCode, fmt.Errorf("fetch failed: %s", resp.Status))
	}

	v, err := decodeValue(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fail(resp.StatusCode, err)
	}

	raw := strings.TrimSpace(v.Text)
	if raw == "" {
		raw = "0"
	}
	return models.Reading{
		Address:        address,
		DisplayName:    v.URI,
		RawValue:       raw,
		Unit:           v.Unit,
		FormattedValue: v.StrValue,
		CapturedAtMs:   f.now().UnixMilli(),
	}, nil
}

// decodeValue returns the first value element anywhere in the document,
// ignoring namespaces.
func decodeValue(r io.Reader) (valueDoc, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return valueDoc{}, ErrMissingValue
		}
		if err != nil {
			return valueDoc{}, fmt.Errorf("invalid XML response: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != valueElement {
			continue
		}
		var v valueDoc
		if err := dec.DecodeElement(&v, &se); err != nil {
			return valueDoc{}, fmt.Errorf("invalid XML response: %w", err)
		}
		return v, nil
	}
}
