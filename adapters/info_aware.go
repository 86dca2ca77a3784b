package adapters

import (
	"context"
	"fmt"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/mediation"
)

// InfoAwareAdapter wraps an Adapter to reject load requests for formats the network does not
// serve before the network SDK is involved.
type InfoAwareAdapter struct {
	mediation.Adapter
	info Info
}

// BuildInfoAwareAdapter wraps adapter to enforce the formats listed in info.
func BuildInfoAwareAdapter(adapter mediation.Adapter, info Info) mediation.Adapter {
	return &InfoAwareAdapter{
		Adapter: adapter,
		info:    info,
	}
}

func (i *InfoAwareAdapter) Load(ctx context.Context, data mediation.AdData, listener mediation.LoadListener) error {
	if !i.info.Supports(data.Format) {
		return &errortypes.BadConfig{
			Message: fmt.Sprintf("%s does not support %s requests", i.info.Name, data.Format),
		}
	}
	return i.Adapter.Load(ctx, data, listener)
}
