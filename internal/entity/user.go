package domain

// User is the identity the backend hands out on login and /auth/me.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func (u User) IsAdmin() bool { return u.Role == "admin" }
