package identity

import (
	"github.com/agrotrade/backend/internal/domain/shared"
)

// Role is the job function a user holds; it decides both the operations
// the user may invoke and how far their branch visibility extends
type Role string

const (
	RoleCEO        Role = "CEO"
	RoleManager    Role = "Manager"
	RoleSalesAgent Role = "Sales Agent"
)

// AllRoles lists every role in display order
var AllRoles = []Role{RoleCEO, RoleManager, RoleSalesAgent}

// ParseRole validates a role string
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", shared.ErrInvalidInput.WithMessage("Role must be one of CEO, Manager, Sales Agent")
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// SeesAllBranches reports whether the role is exempt from branch scoping
func (r Role) SeesAllBranches() bool {
	return r == RoleCEO
}

// Operation names a guarded action. Route registration refers to these
// rather than to role strings.
type Operation string

const (
	OpBranchRead   Operation = "branch.read"
	OpBranchCreate Operation = "branch.create"
	OpBranchUpdate Operation = "branch.update"
	OpBranchDelete Operation = "branch.delete"

	OpStockRead   Operation = "stock.read"
	OpStockCreate Operation = "stock.create"
	OpStockUpdate Operation = "stock.update"
	OpStockDelete Operation = "stock.delete"

	OpProcurementRead   Operation = "procurement.read"
	OpProcurementCreate Operation = "procurement.create"
	OpProcurementUpdate Operation = "procurement.update"
	OpProcurementDelete Operation = "procurement.delete"

	OpSaleRead   Operation = "sale.read"
	OpSaleCreate Operation = "sale.create"
	OpSaleUpdate Operation = "sale.update"
	OpSaleDelete Operation = "sale.delete"

	OpCreditRead Operation = "credit.read"
	OpCreditPay  Operation = "credit.pay"

	OpUserCreate Operation = "user.create"
)

var (
	everyone    = []Role{RoleCEO, RoleManager, RoleSalesAgent}
	management  = []Role{RoleCEO, RoleManager}
	executive   = []Role{RoleCEO}
	permissions = map[Operation][]Role{
		OpBranchRead:   everyone,
		OpBranchCreate: executive,
		OpBranchUpdate: executive,
		OpBranchDelete: executive,

		OpStockRead:   everyone,
		OpStockCreate: management,
		OpStockUpdate: management,
		OpStockDelete: executive,

		OpProcurementRead:   everyone,
		OpProcurementCreate: everyone,
		OpProcurementUpdate: management,
		OpProcurementDelete: executive,

		OpSaleRead:   everyone,
		OpSaleCreate: everyone,
		OpSaleUpdate: management,
		OpSaleDelete: executive,

		OpCreditRead: everyone,
		OpCreditPay:  management,

		OpUserCreate: executive,
	}
)

// Can reports whether role may perform op. Unknown operations and roles
// are denied.
func Can(role Role, op Operation) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Operations returns every operation present in the permission table
func Operations() []Operation {
	ops := make([]Operation, 0, len(permissions))
	for op := range permissions {
		ops = append(ops, op)
	}
	return ops
}
