package internal

import (
	"github.com/deevus/compliance-tui/internal/autorefresh"
	"github.com/deevus/compliance-tui/internal/compliance"
	"github.com/deevus/compliance-tui/internal/selection"
)

// Services holds the collaborators shared by the app and its views for one server.
type Services struct {
	Trend       compliance.TrendServiceAPI
	Selection   *selection.Service
	AutoRefresh autorefresh.Provider
}

// NewServices creates a Services container from the given collaborators.
func NewServices(trend compliance.TrendServiceAPI, sel *selection.Service, refresh autorefresh.Provider) *Services {
	return &Services{
		Trend:       trend,
		Selection:   sel,
		AutoRefresh: refresh,
	}
}
