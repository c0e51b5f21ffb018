package rbac

import (
	"sort"
	"sync"

	"github.com/Jstali/employee-onboarding-sub000/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	Permissions(role string) ([]string, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	if req.Role == "" {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}
	return allowed, nil
}

// Permissions lists "resource:action" pairs granted to role, including
// inherited ones. The client uses it to decide which screens to show.
func (s *service) Permissions(role string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rules))
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		key := rule[1] + ":" + rule[2]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out, nil
}
