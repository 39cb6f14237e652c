package roles

type Binding struct {
	UserId string `json:"userId"`
	Role   string `json:"role"`
}

// Grant is a request body to grant or revoke a role.
type Grant struct {
	Role string `json:"role"`
}
