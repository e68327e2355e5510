package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
)

// NodeID provides the report store rooted at .reuse/reports.
const NodeID graft.ID = "adapter.report_store"

func init() {
	graft.Register(graft.Node[ports.ReportStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ReportStore, error) {
			store, err := NewStore(domain.DefaultReportDir)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
