package domain

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

type User struct {
	ID          int64
	Username    string
	FirstName   string
	LastName    string
	Role        Role
	IsSuperuser bool
}
