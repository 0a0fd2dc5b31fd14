package marketplaceserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	clustersapp "github.com/minglemakers/minglemakers-api/internal/domains/clusters/application"
	clusterdomain "github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
	apierrors "github.com/minglemakers/minglemakers-api/internal/shared/errors"
)

// NearbyFinder ranks cluster members by distance.
type NearbyFinder interface {
	Nearby(ctx context.Context, clusterID string, reference *clusterdomain.Coordinates) ([]clustersapp.NearbyMember, error)
}

// ClustersAPI serves cluster member listings.
type ClustersAPI struct {
	finder NearbyFinder
}

// NewClustersAPI creates a ClustersAPI backed by finder.
func NewClustersAPI(finder NearbyFinder) ClustersAPI {
	return ClustersAPI{finder: finder}
}

// ListNearbyMembersParams are the query parameters of ListNearbyMembers.
type ListNearbyMembersParams struct {
	Lat *float64 `form:"lat,omitempty" json:"lat,omitempty"`
	Lon *float64 `form:"lon,omitempty" json:"lon,omitempty"`
}

// NearbyMember is the HTTP representation of a ranked cluster member.
type NearbyMember struct {
	clusterdomain.Member
	DistanceKm *float64 `json:"distanceKm"`
}

// Get /v1/clusters/:clusterId/members
// Lists cluster members closest first; members without coordinates come last
func (api *ClustersAPI) ListNearbyMembers(c *gin.Context) {
	var clusterID string
	err := runtime.BindStyledParameterWithOptions("simple", "clusterId", c.Param("clusterId"), &clusterID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("invalid format for parameter clusterId: "+err.Error()))
		return
	}

	var params ListNearbyMembersParams
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "lat", query, &params.Lat); err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"lat": err.Error()}))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "lon", query, &params.Lon); err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"lon": err.Error()}))
		return
	}
	if (params.Lat == nil) != (params.Lon == nil) {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"lat,lon": "lat and lon must be given together"}))
		return
	}

	var reference *clusterdomain.Coordinates
	if params.Lat != nil {
		reference = &clusterdomain.Coordinates{Lat: *params.Lat, Lon: *params.Lon}
		if err := reference.Validate(); err != nil {
			respondProblem(c, apierrors.NewValidationProblem(map[string]string{"lat,lon": err.Error()}))
			return
		}
	}
	members, err := api.finder.Nearby(c.Request.Context(), clusterID, reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromNearbyMembers(members))
}

// FromNearbyMembers converts ranked members into their transport shape, never returning nil.
func FromNearbyMembers(members []clustersapp.NearbyMember) []NearbyMember {
	out := make([]NearbyMember, 0, len(members))
	for _, m := range members {
		out = append(out, NearbyMember{Member: m.Member, DistanceKm: m.DistanceKm})
	}
	return out
}
