package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Age      *int     `json:"age,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Goal     *string  `json:"goal,omitempty"`
}

// ProfileUpdate is the body of PUT /auth/profile.
type ProfileUpdate struct {
	Name   string   `json:"name,omitempty"`
	Age    *int     `json:"age,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Goal   *string  `json:"goal,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ProfileResponse struct {
	User *User `json:"user"`
}
