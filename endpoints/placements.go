package endpoints

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// NewPlacementsEndpoint implements /placements: the placement ids currently registered with
// each network's router. An optional ?network= query narrows the answer to one network.
func NewPlacementsEndpoint(source NetworkSource) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		names := source.Names()
		if only := r.URL.Query().Get("network"); only != "" {
			if _, ok := source.Get(only); !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			names = []string{only}
		}

		placements := make(map[string][]string, len(names))
		for _, name := range names {
			network, ok := source.Get(name)
			if !ok {
				continue
			}
			ids := network.Status().Placements
			if ids == nil {
				ids = []string{}
			}
			placements[name] = ids
		}
		writeJSON(w, "/placements", placements)
	}
}
