// Package roles maps free-form role names onto the role categories the
// procurement policies understand. Normalization happens once, in Parse.
package roles

import (
	"sort"
	"strings"
	"unicode"
)

type Role string

const (
	Unknown            Role = "UNKNOWN"
	Employee           Role = "EMPLOYEE"
	DepartmentHead     Role = "DEPARTMENT_HEAD"
	ProcurementOfficer Role = "PROCUREMENT_OFFICER"
	ProcurementManager Role = "PROCUREMENT_MANAGER"
	Admin              Role = "ADMIN"
)

// aliases are keyed by the name with case and separators stripped.
var aliases = map[string]Role{
	"employee":            Employee,
	"staff":               Employee,
	"requester":           Employee,
	"user":                Employee,
	"departmenthead":      DepartmentHead,
	"headofdepartment":    DepartmentHead,
	"hod":                 DepartmentHead,
	"procurementofficer":  ProcurementOfficer,
	"procofficer":         ProcurementOfficer,
	"buyer":               ProcurementOfficer,
	"procurementmanager":  ProcurementManager,
	"procmanager":         ProcurementManager,
	"headofprocurement":   ProcurementManager,
	"admin":               Admin,
	"administrator":       Admin,
	"systemadmin":         Admin,
	"systemadministrator": Admin,
	"superadmin":          Admin,
}

// ParseRole accepts variants such as "PROCUREMENT_OFFICER", "procurement officer",
// "Procurement-Officer" and "ProcurementOfficer".
func ParseRole(name string) Role {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if role, ok := aliases[b.String()]; ok {
		return role
	}
	return Unknown
}

type Set map[Role]struct{}

func Parse(names []string) Set {
	s := Set{}
	for _, n := range names {
		role := ParseRole(n)
		if role == Unknown {
			continue
		}
		s[role] = struct{}{}
	}
	return s
}

func (s Set) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s Set) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// CanCombineRequests reports whether the set carries a role allowed to merge requests.
func (s Set) CanCombineRequests() bool {
	return s.HasAny(ProcurementOfficer, ProcurementManager, Admin)
}

// CanManageRules reports whether the set may change splintering rule configuration.
func (s Set) CanManageRules() bool {
	return s.HasAny(ProcurementManager, Admin)
}

func (s Set) IsAdmin() bool { return s.Has(Admin) }

func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}
