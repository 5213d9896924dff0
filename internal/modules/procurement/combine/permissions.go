package combine

import (
	"fmt"
	"strings"

	"github.com/yungbote/procurement-backend/internal/modules/procurement/roles"
)

// ApprovalValueThreshold is the combined value above which merging needs extra approval.
const ApprovalValueThreshold = 25_000.0

// CheckCombinePermissions parses role names and delegates to CheckCombinePermissionsForRoles.
func CheckCombinePermissions(userRoles []string, userDepartment string, requests []Request) PermissionResult {
	return CheckCombinePermissionsForRoles(roles.Parse(userRoles), userDepartment, requests)
}

// CheckCombinePermissionsForRoles evaluates every approval trigger independently
// and keeps a reason for each one that fires. userDepartment adds no trigger.
func CheckCombinePermissionsForRoles(set roles.Set, userDepartment string, requests []Request) PermissionResult {
	res := PermissionResult{CanCombine: set.CanCombineRequests(), Reasons: []string{}}

	depts := departments(requests)
	if len(depts) > 1 {
		res.RequiresApproval = true
		res.Reasons = append(res.Reasons, fmt.Sprintf("Requests span %d departments (%s); cross-department approval is required", len(depts), strings.Join(depts, ", ")))
	}
	if total := totalValue(requests); total > ApprovalValueThreshold {
		res.RequiresApproval = true
		res.Reasons = append(res.Reasons, fmt.Sprintf("Combined value %.2f exceeds %.2f; additional approval is required", total, ApprovalValueThreshold))
	}
	if !res.CanCombine {
		res.Reasons = append(res.Reasons, "Insufficient permissions: combining requests requires a procurement officer, procurement manager, or administrator role")
	}
	return res
}
