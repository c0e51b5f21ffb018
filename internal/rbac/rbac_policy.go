package rbac

import "github.com/Jstali/employee-onboarding-sub000/internal/domain"

const (
	ResourceOnboarding       = "onboarding"
	ResourceOnboardingReview = "onboarding_review"
	ResourceUsers            = "users"
	ResourceRoster           = "roster"
	ResourceAttendance       = "attendance"
	ResourceAttendanceAdmin  = "attendance_admin"
	ResourceAudit            = "audit"
)

// DefaultPolicies is the permission table. hr inherits every employee
// permission through DefaultInheritance.
func DefaultPolicies() [][]string {
	return [][]string{
		{domain.RoleEmployee, ResourceOnboarding, "submit"},
		{domain.RoleEmployee, ResourceOnboarding, "read"},
		{domain.RoleEmployee, ResourceAttendance, "create"},
		{domain.RoleEmployee, ResourceAttendance, "read"},

		{domain.RoleHR, ResourceOnboardingReview, "*"},
		{domain.RoleHR, ResourceUsers, "*"},
		{domain.RoleHR, ResourceRoster, "*"},
		{domain.RoleHR, ResourceAttendanceAdmin, "*"},
		{domain.RoleHR, ResourceAudit, "read"},
	}
}

func DefaultInheritance() [][]string {
	return [][]string{
		{domain.RoleHR, domain.RoleEmployee},
	}
}
