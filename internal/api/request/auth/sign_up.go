package auth

// SignUpRequest POST /api/auth/sign-up
// 邮箱需先通过 verify-otp
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2" example:"Al"`
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret1"`
	// 可选
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone_number" example:"+1 555 000 0000"`
}
