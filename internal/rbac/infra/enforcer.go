package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// modelText is role based with inheritance: g(role, parentRole).
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

// NewEnforcer builds an in-memory enforcer seeded with policies and role
// inheritance edges.
func NewEnforcer(policies [][]string, inheritance [][]string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if len(policies) > 0 {
		if _, err := e.AddPolicies(policies); err != nil {
			return nil, err
		}
	}
	for _, edge := range inheritance {
		if _, err := e.AddGroupingPolicy(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}
	return e, nil
}
