package endpoints

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/mediation"
)

// NetworkSource is the set of built networks the admin endpoints report on.
type NetworkSource interface {
	Names() []string
	Get(name string) (adapters.Network, bool)
}

type networkDetails struct {
	Name        string               `json:"name"`
	DisplayName string               `json:"displayName"`
	Formats     []mediation.AdFormat `json:"formats"`
	SDK         string               `json:"sdk"`
	Pending     int                  `json:"pending"`
	Placements  int                  `json:"placements"`
}

func describe(network adapters.Network) networkDetails {
	info := network.Info()
	status := network.Status()
	return networkDetails{
		Name:        info.Name,
		DisplayName: info.DisplayName,
		Formats:     info.Formats,
		SDK:         status.SDK,
		Pending:     status.Pending,
		Placements:  len(status.Placements),
	}
}

// NewNetworksEndpoint implements /networks: the SDK initialization state of every network.
func NewNetworksEndpoint(source NetworkSource) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		names := source.Names()
		details := make([]networkDetails, 0, len(names))
		for _, name := range names {
			if network, ok := source.Get(name); ok {
				details = append(details, describe(network))
			}
		}
		writeJSON(w, "/networks", details)
	}
}

// NewNetworkDetailsEndpoint implements /networks/:network.
func NewNetworkDetailsEndpoint(source NetworkSource) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
		name := ps.ByName("network")
		network, ok := source.Get(name)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, "/networks/"+name, describe(network))
	}
}
