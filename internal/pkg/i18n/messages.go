// File: internal/pkg/i18n/messages.go
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Key 文案键，使用英文原文作为 key
type Key string

// 表单字段
const (
	LabelName            Key = "Name"
	LabelEmail           Key = "Email"
	LabelPhone           Key = "Phone (optional)"
	LabelPassword        Key = "Password"
	LabelConfirmPassword Key = "Confirm Password"
	LabelOTP             Key = "OTP"

	MsgInvalidEmail     Key = "Please enter a valid email address"
	MsgPasswordTooShort Key = "Password must be at least 6 characters"
	MsgNameTooShort     Key = "Name must be at least 2 characters"
	MsgPasswordMismatch Key = "Passwords do not match"
)

// 通知文案
const (
	MsgFixFields            Key = "Please correct the highlighted fields"
	MsgLoginSuccess         Key = "Login successful. Welcome back!"
	MsgLoginRejected        Key = "Login failed. Please check your credentials"
	MsgLoginUnavailable     Key = "Login failed. Please try again later"
	MsgOTPSent              Key = "OTP sent to %s"
	MsgOTPSendFailed        Key = "Could not send OTP. Please try again"
	MsgOTPRequired          Key = "Please enter OTP"
	MsgOTPVerifyFailed      Key = "OTP verification failed"
	MsgRegistrationComplete Key = "Registration complete! Please log in."
	MsgRegistrationFailed   Key = "Registration failed. Please try again"
	MsgBusy                 Key = "Please wait for the current request to finish"
)

// 界面文案
const (
	TitleLogin        Key = "Login"
	TitleRegister     Key = "Register"
	SubtitleLogin     Key = "Enter your credentials"
	SubtitleRegister  Key = "Fill in and verify your email"
	TitleVerifyEmail  Key = "Verify Email"
	PromptOTP         Key = "Enter the 6-digit OTP we sent to %s"
	ButtonLoggingIn   Key = "Logging in…"
	ButtonSendingOTP  Key = "Sending OTP…"
	ButtonVerifying   Key = "Verifying…"
	LinkToRegister    Key = "Don't have an account? Register"
	LinkToLogin       Key = "Already have an account? Login"
	HelpKeys          Key = "tab: next field  enter: submit  ctrl+s: switch mode  esc: close dialog  ctrl+c: quit"
	DashboardTitle    Key = "Dashboard"
	DashboardWelcome  Key = "Welcome back! Here's an overview of your finances."
	DashboardLoading  Key = "Loading..."
	NoDescription     Key = "No description"
	RecentExpensesHdr Key = "Recent Expenses"
	MonthlyHdr        Key = "Monthly Expenses"
	CategoriesHdr     Key = "Expenses by Category"
	HelpDashboard     Key = "r: refresh  ctrl+l: log out  q: quit"
	MsgDashboardError Key = "Could not load dashboard data"
)

var zh = map[Key]string{
	LabelName:            "姓名",
	LabelEmail:           "邮箱",
	LabelPhone:           "手机号（可选）",
	LabelPassword:        "密码",
	LabelConfirmPassword: "确认密码",
	LabelOTP:             "验证码",

	MsgInvalidEmail:     "请输入有效的邮箱地址",
	MsgPasswordTooShort: "密码长度不能少于6个字符",
	MsgNameTooShort:     "姓名长度不能少于2个字符",
	MsgPasswordMismatch: "两次输入的密码不一致",

	MsgFixFields:            "请修正标记的字段",
	MsgLoginSuccess:         "登录成功，欢迎回来！",
	MsgLoginRejected:        "登录失败，请检查账号和密码",
	MsgLoginUnavailable:     "登录失败，请稍后再试",
	MsgOTPSent:              "验证码已发送至 %s",
	MsgOTPSendFailed:        "验证码发送失败，请重试",
	MsgOTPRequired:          "请输入验证码",
	MsgOTPVerifyFailed:      "验证码校验失败",
	MsgRegistrationComplete: "注册完成！请登录。",
	MsgRegistrationFailed:   "注册失败，请重试",
	MsgBusy:                 "请等待当前请求完成",

	TitleLogin:        "登录",
	TitleRegister:     "注册",
	SubtitleLogin:     "请输入账号信息",
	SubtitleRegister:  "填写信息并验证邮箱",
	TitleVerifyEmail:  "验证邮箱",
	PromptOTP:         "请输入发送至 %s 的6位验证码",
	ButtonLoggingIn:   "登录中…",
	ButtonSendingOTP:  "发送验证码中…",
	ButtonVerifying:   "验证中…",
	LinkToRegister:    "还没有账号？去注册",
	LinkToLogin:       "已有账号？去登录",
	HelpKeys:          "tab: 下一项  enter: 提交  ctrl+s: 切换模式  esc: 关闭对话框  ctrl+c: 退出",
	DashboardTitle:    "仪表盘",
	DashboardWelcome:  "欢迎回来！以下是你的财务概览。",
	DashboardLoading:  "加载中...",
	NoDescription:     "无描述",
	RecentExpensesHdr: "最近支出",
	MonthlyHdr:        "月度支出",
	CategoriesHdr:     "分类支出",
	HelpDashboard:     "r: 刷新  ctrl+l: 退出登录  q: 退出",
	MsgDashboardError: "仪表盘数据加载失败",
}

func init() {
	for key, text := range zh {
		// 英文直接使用 key 本身
		_ = message.SetString(language.English, string(key), string(key))
		_ = message.SetString(language.Chinese, string(key), text)
	}
}
