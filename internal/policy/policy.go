package policy

import "dokon/internal/domain"

type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceProduct  Resource = "product"
	ResourceCustomer Resource = "customer"
	ResourceSale     Resource = "sale"
	ResourcePurchase Resource = "purchase"
	ResourceExpense  Resource = "expense"
	ResourceSalary   Resource = "salary"
	ResourceStats    Resource = "stats"
)

var AllResources = []Resource{
	ResourceCategory, ResourceProduct, ResourceCustomer, ResourceSale,
	ResourcePurchase, ResourceExpense, ResourceSalary, ResourceStats,
}

type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

var allActions = []Action{ActionView, ActionAdd, ActionChange, ActionDelete}

type Operation struct {
	Resource Resource
	Action   Action
}

// Subject is whoever is asking. A nil Subject is unauthenticated.
type Subject interface {
	SubjectRole() domain.Role
	Superuser() bool
}

// Policy answers authorization questions from an explicit role table.
// Superusers bypass the table.
type Policy struct {
	grants map[domain.Role]map[Operation]struct{}
}

func New(table map[domain.Role][]Operation) *Policy {
	grants := make(map[domain.Role]map[Operation]struct{}, len(table))
	for role, ops := range table {
		set := make(map[Operation]struct{}, len(ops))
		for _, op := range ops {
			set[op] = struct{}{}
		}
		grants[role] = set
	}
	return &Policy{grants: grants}
}

// Default is the shop's role table: admins manage everything, managers may
// only view and record salaries, plain users get nothing on the admin side.
func Default() *Policy {
	var adminOps []Operation
	for _, r := range AllResources {
		for _, a := range allActions {
			adminOps = append(adminOps, Operation{Resource: r, Action: a})
		}
	}

	return New(map[domain.Role][]Operation{
		domain.RoleAdmin: adminOps,
		domain.RoleManager: {
			{Resource: ResourceSalary, Action: ActionView},
			{Resource: ResourceSalary, Action: ActionAdd},
		},
		domain.RoleUser: nil,
	})
}

func (p *Policy) Allowed(s Subject, resource Resource, action Action) bool {
	if s == nil {
		return false
	}
	if s.Superuser() {
		return true
	}
	_, ok := p.grants[s.SubjectRole()][Operation{Resource: resource, Action: action}]
	return ok
}

// CanGiveSalary reports whether u may appear as a salary's payer.
func CanGiveSalary(u domain.User) bool {
	return u.IsSuperuser || u.Role == domain.RoleManager || u.Role == domain.RoleAdmin
}

// CanTakeSalary reports whether u may appear as a salary's recipient.
func CanTakeSalary(u domain.User) bool {
	return u.Role == domain.RoleAdmin
}

type userSubject struct {
	u domain.User
}

func (s userSubject) SubjectRole() domain.Role { return s.u.Role }
func (s userSubject) Superuser() bool          { return s.u.IsSuperuser }

func ForUser(u domain.User) Subject {
	return userSubject{u: u}
}
