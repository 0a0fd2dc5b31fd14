package ports

import (
	"context"

	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
)

// MemberDirectory lists the members registered in a cluster.
type MemberDirectory interface {
	Members(ctx context.Context, clusterID string) ([]domain.Member, error)
}
