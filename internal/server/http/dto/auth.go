package dto

// LoginRequest describes staff credentials payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for the admin API.
type LoginResponse struct {
	Token string `json:"token"`
}
