package auth

// SignInUser 登录响应中的用户信息
type SignInUser struct {
	UserID string `json:"user_id"`
}

// SignInResult POST /api/auth/sign-in 成功响应
type SignInResult struct {
	User  SignInUser `json:"user"`
	Token string     `json:"token"`
}
