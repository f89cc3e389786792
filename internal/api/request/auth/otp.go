package auth

// SendOTPRequest POST /api/auth/send-otp
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"user@example.com"`
}

// VerifyOTPRequest POST /api/auth/verify-otp
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"user@example.com"`
	// 6 位数字
	OTP string `json:"otp" validate:"required,otp_code" example:"123456"`
}
