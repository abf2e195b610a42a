package compliance

import "context"

// MockTrendService is a TrendServiceAPI whose behaviour is set per test.
type MockTrendService struct {
	FetchFunc func(ctx context.Context, req TrendRequest) ([]Series, error)
}

// Fetch calls FetchFunc, or returns no series when it is unset.
func (m *MockTrendService) Fetch(ctx context.Context, req TrendRequest) ([]Series, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, req)
	}
	return nil, nil
}
