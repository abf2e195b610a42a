package selection

// Service groups the selection streams shared by the app and its views.
type Service struct {
	AssetGroups *Stream[string]
	Filters     *Stream[Filters]
}

// NewService creates a Service with assetGroup selected and filters as the
// initial filter context. A nil filters map is published as empty.
func NewService(assetGroup string, filters Filters) *Service {
	if filters == nil {
		filters = Filters{}
	}
	return &Service{
		AssetGroups: NewStreamWith(assetGroup),
		Filters:     NewStreamWith(filters),
	}
}

// SelectAssetGroup publishes name unless it is already the current selection.
// It reports whether a change was published.
func (s *Service) SelectAssetGroup(name string) bool {
	if cur, ok := s.AssetGroups.Current(); ok && cur == name {
		return false
	}
	s.AssetGroups.Publish(name)
	return true
}

// Close ends both streams.
func (s *Service) Close() {
	s.AssetGroups.Close()
	s.Filters.Close()
}
