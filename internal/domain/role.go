package domain

const (
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

const (
	EmployeeTypeIntern   = "intern"
	EmployeeTypeContract = "contract"
	EmployeeTypeFulltime = "fulltime"
)

func IsValidRole(role string) bool {
	return role == RoleHR || role == RoleEmployee
}

func IsValidEmployeeType(t string) bool {
	switch t {
	case EmployeeTypeIntern, EmployeeTypeContract, EmployeeTypeFulltime:
		return true
	default:
		return false
	}
}
