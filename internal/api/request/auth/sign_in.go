package auth

// SignInRequest POST /api/auth/sign-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"secret1"`
}
