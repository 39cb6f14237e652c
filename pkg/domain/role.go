package domain

import "fmt"

type Role string

const (
	// can do everything in back-office.
	Admin Role = "admin"

	// can manage products, orders and reviews.
	Staff Role = "staff"
)

func AsRole(s string) (Role, error) {
	switch r := Role(s); r {
	case Admin, Staff:
		return r, nil
	default:
		return r, fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Satisfies tells held roles satisfy one of required roles.
//
// Admin satisfies any requirement.
func Satisfies(held []Role, required ...Role) bool {
	for _, h := range held {
		if h == Admin {
			return true
		}
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}

// User is an authenticated user.
type User struct {
	Id    string
	Email string
	Name  string
}

type RoleBinding struct {
	UserId string
	Role   Role
}
