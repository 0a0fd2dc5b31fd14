package application

import (
	"context"
	"math"
	"strings"

	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/geo"
	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/ports"
)

// NearbyMember is a member with its distance from the caller, nil when unknown.
type NearbyMember struct {
	Member     domain.Member
	DistanceKm *float64
}

// Service answers "who in this cluster is closest to me".
type Service struct {
	directory ports.MemberDirectory
}

func NewService(directory ports.MemberDirectory) *Service {
	return &Service{directory: directory}
}

// Nearby returns the cluster's members closest first. A nil reference keeps directory order.
func (s *Service) Nearby(ctx context.Context, clusterID string, reference *domain.Coordinates) ([]NearbyMember, error) {
	clusterID = strings.TrimSpace(clusterID)
	if clusterID == "" {
		return nil, domain.ErrEmptyClusterID
	}
	if reference != nil {
		if err := reference.Validate(); err != nil {
			return nil, err
		}
	}
	members, err := s.directory.Members(ctx, clusterID)
	if err != nil {
		return nil, err
	}
	ranked := geo.Rank(members, reference, func(m domain.Member) *domain.Coordinates { return m.Coords })
	result := make([]NearbyMember, 0, len(ranked))
	for _, r := range ranked {
		nearby := NearbyMember{Member: r.Item}
		if !math.IsInf(r.DistanceKm, 1) {
			d := r.DistanceKm
			nearby.DistanceKm = &d
		}
		result = append(result, nearby)
	}
	return result, nil
}
