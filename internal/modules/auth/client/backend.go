// Package client 封装与记账后端认证接口的 HTTP 交互。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"expense-tracker/internal/pkg/ctxkey"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/metrics"
	"expense-tracker/internal/pkg/trace"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/google/uuid"
)

// 后端接口路径
const (
	PathSignIn    = "/api/auth/sign-in"
	PathSendOTP   = "/api/auth/send-otp"
	PathVerifyOTP = "/api/auth/verify-otp"
	PathSignUp    = "/api/auth/sign-up"
)

// 操作名，用于日志与指标
const (
	OpSignIn    = "sign_in"
	OpSendOTP   = "send_otp"
	OpVerifyOTP = "verify_otp"
	OpSignUp    = "sign_up"
)

// maxBackendMessageRunes 后端错误文案最大长度
const maxBackendMessageRunes = 200

// maxBodyBytes 响应体读取上限
const maxBodyBytes = 1 << 20

// SignInResult 登录成功返回的会话凭据
type SignInResult struct {
	UserID string
	Token  string
}

// SignUpRequest 注册请求体，phone_number 为空时省略
type SignUpRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	User struct {
		UserID string `json:"user_id"`
	} `json:"user"`
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// BackendClient 认证后端 HTTP 客户端
type BackendClient struct {
	baseURL string
	http    *http.Client
	metrics *metrics.AuthMetrics
	logger  log.Logger
}

// Option 客户端配置项
type Option func(*BackendClient)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *BackendClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout 设置整体请求超时，0 表示不设置，依赖传输层行为
func WithTimeout(d time.Duration) Option {
	return func(c *BackendClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithMetrics 注入指标
func WithMetrics(m *metrics.AuthMetrics) Option {
	return func(c *BackendClient) { c.metrics = m }
}

// WithLogger 注入日志器
func WithLogger(l log.Logger) Option {
	return func(c *BackendClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewBackendClient 创建后端客户端
func NewBackendClient(baseURL string, opts ...Option) *BackendClient {
	c := &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  log.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "backend_client")
	return c
}

// BaseURL 返回后端地址
func (c *BackendClient) BaseURL() string { return c.baseURL }

// SignIn 登录，成功时响应必须包含非空的 user.user_id 与 token
func (c *BackendClient) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	var resp signInResponse
	if err := c.do(ctx, OpSignIn, http.MethodPost, PathSignIn, "", signInRequest{Email: email, Password: password}, &resp); err != nil {
		return SignInResult{}, err
	}
	if resp.User.UserID == "" || resp.Token == "" {
		return SignInResult{}, xerrors.NewMalformedResponse(OpSignIn, errors.New("response missing user.user_id or token"))
	}
	return SignInResult{UserID: resp.User.UserID, Token: resp.Token}, nil
}

// SendOTP 请求向 email 发送验证码，返回后端 message
func (c *BackendClient) SendOTP(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, OpSendOTP, http.MethodPost, PathSendOTP, "", emailRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// VerifyOTP 校验验证码，返回后端 message
func (c *BackendClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, OpVerifyOTP, http.MethodPost, PathVerifyOTP, "", verifyOTPRequest{Email: email, OTP: otp}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// SignUp 创建账号，返回后端 message
func (c *BackendClient) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	var resp messageResponse
	if err := c.do(ctx, OpSignUp, http.MethodPost, PathSignUp, "", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetJSON 携带 Bearer token 发起 GET 请求并解析 JSON 响应
func (c *BackendClient) GetJSON(ctx context.Context, operation, path, token string, out any) error {
	return c.do(ctx, operation, http.MethodGet, path, token, nil, out)
}

// do 发送请求并按 RequestFailed / NetworkError 分类错误
func (c *BackendClient) do(ctx context.Context, operation, method, path, token string, body, out any) (err error) {
	ctx = ctxkey.WithValue(ctx, ctxkey.Operation, operation)
	requestID := uuid.NewString()
	start := time.Now()

	done := c.metrics.TrackInFlight()
	defer func() {
		done()
		c.metrics.ObserveRequest(operation, outcomeOf(err), time.Since(start))
	}()

	req, err := c.newRequest(ctx, method, path, token, requestID, body)
	if err != nil {
		return xerrors.NewWithError(xerrors.CodeInternalError, "build request failed", err).
			WithService("auth-backend", operation)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "后端请求未完成",
			log.String("path", path),
			log.String("request_id", requestID),
			log.Err(err))
		return xerrors.NewNetworkError(operation, err).WithMetadata("request_id", requestID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return xerrors.NewNetworkError(operation, fmt.Errorf("read response body: %w", err)).
			WithMetadata("request_id", requestID)
	}

	c.logger.InfoContext(ctx, "后端请求完成",
		log.String("method", method),
		log.String("path", path),
		log.Int("status", resp.StatusCode),
		log.Duration("duration_ms", time.Since(start).Milliseconds()),
		log.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return xerrors.NewRequestFailed(operation, resp.StatusCode, extractMessage(data)).
			WithMetadata("request_id", requestID)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return xerrors.NewMalformedResponse(operation, err).WithMetadata("request_id", requestID)
	}
	return nil
}

func (c *BackendClient) newRequest(ctx context.Context, method, path, token, requestID string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(trace.HeaderRequestID, requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// extractMessage 只读取错误响应中的 message / error 字符串字段
func extractMessage(data []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := payload[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return truncateRunes(s, maxBackendMessageRunes)
			}
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case xerrors.IsRequestFailed(err):
		return metrics.OutcomeRequestFailed
	default:
		return metrics.OutcomeNetworkError
	}
}
