package dto

// LoginRequest represents the request payload for obtaining an access token
type LoginRequest struct {
	UserName string `json:"user_name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse represents the issued token and its expiry
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
