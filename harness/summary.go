package harness

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/prebid/mediation-adapters/errortypes"
)

// NetworkSummary counts what happened to one network's traffic.
type NetworkSummary struct {
	Network     string                       `json:"network"`
	Requests    int                          `json:"requests"`
	Filled      int                          `json:"filled"`
	Failed      map[errortypes.ErrorCode]int `json:"failed"`
	Shown       int                          `json:"shown"`
	ShowFailed  int                          `json:"showFailed"`
	Impressions int                          `json:"impressions"`
	Clicks      int                          `json:"clicks"`
	Rewards     int                          `json:"rewards"`
}

// Summary aggregates the traffic of every network. It is safe for concurrent use.
type Summary struct {
	mu       sync.Mutex
	networks map[string]*NetworkSummary
}

func newSummary() *Summary {
	return &Summary{networks: make(map[string]*NetworkSummary)}
}

func (s *Summary) update(network string, fn func(*NetworkSummary)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.networks[network]
	if !ok {
		ns = &NetworkSummary{Network: network, Failed: make(map[errortypes.ErrorCode]int)}
		s.networks[network] = ns
	}
	fn(ns)
}

// Networks returns a copy of every network summary, sorted by network name.
func (s *Summary) Networks() []NetworkSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]NetworkSummary, 0, len(s.networks))
	for _, ns := range s.networks {
		cp := *ns
		cp.Failed = make(map[errortypes.ErrorCode]int, len(ns.Failed))
		for code, n := range ns.Failed {
			cp.Failed[code] = n
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Network < out[j].Network })
	return out
}

// Get returns the summary of one network.
func (s *Summary) Get(network string) (NetworkSummary, bool) {
	for _, ns := range s.Networks() {
		if ns.Network == network {
			return ns, true
		}
	}
	return NetworkSummary{}, false
}

// Print writes the summary as an aligned table.
func (s *Summary) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NETWORK\tREQUESTS\tFILLED\tSHOWN\tSHOW_FAILED\tIMPRESSIONS\tCLICKS\tREWARDS\tFAILURES")
	for _, ns := range s.Networks() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			ns.Network, ns.Requests, ns.Filled, ns.Shown, ns.ShowFailed, ns.Impressions, ns.Clicks, ns.Rewards, formatFailures(ns.Failed))
	}
	return tw.Flush()
}

func formatFailures(failed map[errortypes.ErrorCode]int) string {
	if len(failed) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(failed))
	for code, n := range failed {
		parts = append(parts, fmt.Sprintf("%s=%d", code, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
