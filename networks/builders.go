package networks

import (
	"sort"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/adapters/adcolony"
	"github.com/prebid/mediation-adapters/adapters/chartboost"
	"github.com/prebid/mediation-adapters/adapters/fyber"
	"github.com/prebid/mediation-adapters/adapters/ironsource"
	"github.com/prebid/mediation-adapters/adapters/mintegral"
	"github.com/prebid/mediation-adapters/adapters/vungle"
)

// newNetworkBuilders returns the builder of every supported network, keyed by network name.
func newNetworkBuilders() map[string]adapters.Builder {
	return map[string]adapters.Builder{
		"adcolony":   adcolony.Builder,
		"chartboost": chartboost.Builder,
		"fyber":      fyber.Builder,
		"ironsource": ironsource.Builder,
		"mintegral":  mintegral.Builder,
		"vungle":     vungle.Builder,
	}
}

// Names returns the supported network names, sorted.
func Names() []string {
	builders := newNetworkBuilders()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
