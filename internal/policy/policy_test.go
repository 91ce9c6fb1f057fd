package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dokon/internal/domain"
)

func TestDefault_Admin(t *testing.T) {
	p := Default()
	admin := ForUser(domain.User{Role: domain.RoleAdmin})

	for _, r := range AllResources {
		for _, a := range allActions {
			assert.True(t, p.Allowed(admin, r, a), "admin should be allowed %s %s", a, r)
		}
	}
}

func TestDefault_Manager(t *testing.T) {
	p := Default()
	manager := ForUser(domain.User{Role: domain.RoleManager})

	tests := []struct {
		resource Resource
		action   Action
		allowed  bool
	}{
		{ResourceSalary, ActionView, true},
		{ResourceSalary, ActionAdd, true},
		{ResourceSalary, ActionChange, false},
		{ResourceSalary, ActionDelete, false},
		{ResourceSale, ActionView, false},
		{ResourceProduct, ActionAdd, false},
		{ResourceStats, ActionView, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, p.Allowed(manager, tt.resource, tt.action), "%s %s", tt.action, tt.resource)
	}
}

func TestDefault_UserAndAnonymous(t *testing.T) {
	p := Default()
	user := ForUser(domain.User{Role: domain.RoleUser})

	for _, r := range AllResources {
		assert.False(t, p.Allowed(user, r, ActionView))
		assert.False(t, p.Allowed(nil, r, ActionView))
	}
}

func TestDefault_UnknownRole(t *testing.T) {
	p := Default()

	assert.False(t, p.Allowed(ForUser(domain.User{Role: "CASHIER"}), ResourceSale, ActionView))
}

func TestSuperuserBypassesTable(t *testing.T) {
	p := New(nil)
	root := ForUser(domain.User{Role: domain.RoleUser, IsSuperuser: true})

	assert.True(t, p.Allowed(root, ResourceExpense, ActionDelete))
}

func TestSalaryParticipants(t *testing.T) {
	assert.True(t, CanGiveSalary(domain.User{Role: domain.RoleManager}))
	assert.True(t, CanGiveSalary(domain.User{Role: domain.RoleAdmin}))
	assert.True(t, CanGiveSalary(domain.User{Role: domain.RoleUser, IsSuperuser: true}))
	assert.False(t, CanGiveSalary(domain.User{Role: domain.RoleUser}))

	assert.True(t, CanTakeSalary(domain.User{Role: domain.RoleAdmin}))
	assert.False(t, CanTakeSalary(domain.User{Role: domain.RoleManager}))
}
