package types

// UserResponse is the public projection of a user row, safe to return to
// clients and to embed in token claims.
type UserResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
