package compliance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingKey is returned by FindSeries when a series has no key.
var ErrMissingKey = errors.New("series has no key")

// SeriesKey is the response series holding the compliance percentage.
const SeriesKey = "compliance_percent"

// DateLayout is the wire format of TrendRequest.From and Point.Date.
const DateLayout = "2006-01-02"

// TrendRequest is the query sent to the compliance trend endpoint.
type TrendRequest struct {
	AssetGroup string            `json:"ag"`
	From       string            `json:"from"`
	Filters    map[string]string `json:"filters"`
}

// Point is one sample of a trend series.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Time parses Date, returning the zero time when it is not YYYY-MM-DD.
func (p Point) Time() time.Time {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Series is one named line of a trend response.
type Series struct {
	Key    string  `json:"key"`
	Values []Point `json:"values"`
}

// Latest returns the last point of the series, if any.
func (s Series) Latest() (Point, bool) {
	if len(s.Values) == 0 {
		return Point{}, false
	}
	return s.Values[len(s.Values)-1], true
}

// TrendServiceAPI fetches compliance trend series.
type TrendServiceAPI interface {
	Fetch(ctx context.Context, req TrendRequest) ([]Series, error)
}

// NewTrendRequest builds the request for assetGroup covering the month before now.
// Filters are always sent empty.
func NewTrendRequest(assetGroup string, now time.Time) TrendRequest {
	return TrendRequest{
		AssetGroup: assetGroup,
		From:       FromDate(now),
		Filters:    map[string]string{},
	}
}

// FromDate returns the date one calendar month before now as YYYY-MM-DD.
// The day of month is kept as is; time.Date normalises overflow, so
// March 31 becomes March 3 (March 2 in leap years).
func FromDate(now time.Time) string {
	year, month, day := now.Date()
	if month == time.January {
		year--
		month = time.December
	} else {
		month--
	}
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).Format(DateLayout)
}

// FindSeries scans series in order and returns the last one whose key
// matches SeriesKey case-insensitively. A series without a key aborts the
// scan with ErrMissingKey.
func FindSeries(series []Series) (Series, bool, error) {
	var found Series
	ok := false
	for i, s := range series {
		if s.Key == "" {
			return Series{}, false, fmt.Errorf("series %d: %w", i, ErrMissingKey)
		}
		if strings.ToLower(s.Key) == SeriesKey {
			found = s
			ok = true
		}
	}
	return found, ok, nil
}
