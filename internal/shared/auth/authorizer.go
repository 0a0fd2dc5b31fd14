package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// defaultPolicies grants role → route permissions. Suppliers run fulfilment;
// artisans place and follow their orders.
var defaultPolicies = [][]string{
	{string(RoleSupplier), "/v1/orders", "GET"},
	{string(RoleSupplier), "/v1/orders/summary", "GET"},
	{string(RoleSupplier), "/v1/orders/:orderId", "GET"},
	{string(RoleSupplier), "/v1/orders/:orderId/timeline", "GET"},
	{string(RoleSupplier), "/v1/orders/:orderId/advance", "POST"},
	{string(RoleSupplier), "/v1/clusters/:clusterId/members", "GET"},

	{string(RoleArtisan), "/v1/orders", "POST"},
	{string(RoleArtisan), "/v1/orders/:orderId", "GET"},
	{string(RoleArtisan), "/v1/orders/:orderId/timeline", "GET"},
	{string(RoleArtisan), "/v1/clusters/:clusterId/members", "GET"},
}

var defaultGroupings = [][]string{
	{string(RoleAdmin), string(RoleSupplier)},
	{string(RoleAdmin), string(RoleArtisan)},
}

// Authorizer decides whether a role may call a route.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds an in-memory RBAC enforcer with the built-in policy.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load RBAC model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize RBAC enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("failed to add RBAC policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(defaultGroupings); err != nil {
		return nil, fmt.Errorf("failed to add RBAC roles: %w", err)
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform method on route, the gin route template
// (for example /v1/orders/:orderId).
func (a *Authorizer) Allowed(role Role, route, method string) (bool, error) {
	allowed, err := a.enforcer.Enforce(string(role), route, method)
	if err != nil {
		return false, fmt.Errorf("RBAC permission check failed: %w", err)
	}
	return allowed, nil
}
