package types

// AuthenticatedUser is the acting user resolved by the auth middleware. It is
// passed explicitly into every service call.
type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
