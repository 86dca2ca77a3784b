package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
)

const statusEndpointValueNotSet = "not-set"

// NewStatusEndpoint implements /status. It answers with the build revision and the number of
// networks being served.
func NewStatusEndpoint(revision string, source NetworkSource) httprouter.Handle {
	if revision == "" {
		revision = statusEndpointValueNotSet
	}
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, "/status", struct {
			Status   string `json:"status"`
			Revision string `json:"revision"`
			Networks int    `json:"networks"`
		}{
			Status:   "ok",
			Revision: revision,
			Networks: len(source.Names()),
		})
	}
}

func writeJSON(w http.ResponseWriter, endpoint string, body interface{}) {
	response, err := json.Marshal(body)
	if err != nil {
		glog.Errorf("error creating %s endpoint response: %v", endpoint, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(response); err != nil {
		glog.Errorf("error writing response to %s: %v", endpoint, err)
	}
}
