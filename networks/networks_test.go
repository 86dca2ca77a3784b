package networks

import (
	"context"
	"errors"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/adapters/adapterstest"
	"github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/mediation/mediationtest"
)

func testConfig(networks map[string]config.Network) *config.Configuration {
	return &config.Configuration{
		GDPR:     config.GDPR{DefaultValue: "1"},
		Networks: networks,
	}
}

func testServices() Services {
	return Services{Clock: clock.NewMock()}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"adcolony", "chartboost", "fyber", "ironsource", "mintegral", "vungle"}, Names())
}

func TestBuildNetworks(t *testing.T) {
	testCases := []struct {
		description   string
		networks      map[string]config.Network
		expectedNames []string
	}{
		{
			description:   "nothing-configured",
			networks:      nil,
			expectedNames: []string{"adcolony", "chartboost", "fyber", "ironsource", "mintegral", "vungle"},
		},
		{
			description: "disabled-networks-skipped",
			networks: map[string]config.Network{
				"fyber":  {Disabled: true},
				"vungle": {Disabled: true},
			},
			expectedNames: []string{"adcolony", "chartboost", "ironsource", "mintegral"},
		},
		{
			description:   "all-disabled",
			networks:      map[string]config.Network{"adcolony": {Disabled: true}, "chartboost": {Disabled: true}, "fyber": {Disabled: true}, "ironsource": {Disabled: true}, "mintegral": {Disabled: true}, "vungle": {Disabled: true}},
			expectedNames: []string{},
		},
	}

	for _, test := range testCases {
		registry, errs := BuildNetworks(testConfig(test.networks), testServices())
		assert.Empty(t, errs, test.description)
		assert.Equal(t, test.expectedNames, registry.Names(), test.description)
		registry.Close()
	}
}

func TestBuildNetworksErrors(t *testing.T) {
	failing := func(cfg adapters.Config) (adapters.Network, error) {
		return nil, errors.New("sdk unavailable")
	}
	builders := map[string]adapters.Builder{
		"broken": failing,
	}
	cfg := testConfig(map[string]config.Network{
		"unknown": {},
	})

	registry, errs := buildNetworks(cfg, builders, testServices())

	assert.ElementsMatch(t, []error{
		errors.New("broken: sdk unavailable"),
		errors.New("unknown: builder not registered"),
	}, errs)
	assert.Empty(t, registry.Names())
}

func TestBuildNetworksPassesSettings(t *testing.T) {
	var received adapters.Config
	builders := map[string]adapters.Builder{
		"vungle": func(cfg adapters.Config) (adapters.Network, error) {
			received = cfg
			return nil, errors.New("stop")
		},
	}
	cfg := testConfig(map[string]config.Network{
		"vungle": {Params: map[string]string{"appId": "app"}},
	})
	cfg.Router.NotifyDisplaced = true
	cfg.GDPR.DefaultValue = "0"

	_, errs := buildNetworks(cfg, builders, testServices())

	require.Len(t, errs, 1)
	assert.Equal(t, "vungle", received.Name)
	assert.True(t, received.NotifyDisplaced)
	assert.Equal(t, "0", received.GDPRDefault)
	assert.Equal(t, map[string]string{"appId": "app"}, received.Network.Params)
	assert.NotNil(t, received.Executor, "defaults are filled")
	assert.NotNil(t, received.Params, "defaults are filled")
}

func TestRegistryAdaptersRejectUnsupportedFormats(t *testing.T) {
	registry, errs := BuildNetworks(testConfig(nil), testServices())
	require.Empty(t, errs)
	defer registry.Close()

	network, ok := registry.Get("vungle")
	require.True(t, ok)

	listener := &mediationtest.Recorder{}
	data := adapterstest.AdData(mediation.FormatBanner, map[string]string{"appId": "app", "placementId": "p1"})
	err := network.NewAdapter().Load(context.Background(), data, listener)

	assert.Equal(t, errortypes.AdapterConfigurationError, errortypes.ReadCode(err))
	assert.Empty(t, listener.Calls())
}

func TestRegistryLoadThroughNetwork(t *testing.T) {
	registry, errs := BuildNetworks(testConfig(nil), testServices())
	require.Empty(t, errs)
	defer registry.Close()

	network, ok := registry.Get("vungle")
	require.True(t, ok)

	data := adapterstest.AdData(mediation.FormatInterstitial, map[string]string{"appId": "app", "placementId": "p1"})
	_, listener := adapterstest.Load(t, network, data)

	adapterstest.AssertCalls(t, listener, "loaded")
	status := registry.Statuses()
	require.Len(t, status, 6)
	assert.Equal(t, "vungle", status[5].Network)
	assert.Equal(t, []string{"p1"}, status[5].Placements)
}

func TestRegistryGetUnknown(t *testing.T) {
	registry, _ := BuildNetworks(testConfig(nil), testServices())
	defer registry.Close()

	_, ok := registry.Get("admob")
	assert.False(t, ok)
	assert.Len(t, registry.Infos(), 6)
}
