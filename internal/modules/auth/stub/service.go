package stub

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/redis"
	"expense-tracker/internal/pkg/sessioncache"
	"expense-tracker/internal/pkg/xerrors"
)

const (
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 3
	verifiedTTL    = 10 * time.Minute

	keyOTP      = "stub:otp:"
	keyAttempts = "stub:otp_attempts:"
	keyVerified = "stub:verified:"
)

// Options 桩服务参数
type Options struct {
	// FixedOTP 非空时所有验证码都使用该值，仅用于演示
	FixedOTP string
	// BcryptCost <=0 时使用 bcrypt 默认值
	BcryptCost int
	TokenTTL   time.Duration
}

// Service 桩服务业务逻辑
type Service struct {
	users    *UserStore
	kv       KV
	sessions *sessioncache.Cache
	fixedOTP string
	logger   log.Logger
	// deliver 投递验证码，默认只写日志
	deliver func(ctx context.Context, email, code string)
}

// NewService 创建桩服务
func NewService(kv KV, sessions *sessioncache.Cache, opts Options, logger log.Logger) *Service {
	if kv == nil {
		kv = NewMemoryKV()
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	if sessions == nil {
		sessions = sessioncache.New(opts.TokenTTL, nil, logger)
	}
	s := &Service{
		users:    NewUserStore(opts.BcryptCost),
		kv:       kv,
		sessions: sessions,
		fixedOTP: strings.TrimSpace(opts.FixedOTP),
		logger:   logger.With("module", "auth_stub"),
	}
	s.deliver = func(ctx context.Context, email, code string) {
		// 开发环境没有邮件服务，验证码直接打印
		s.logger.InfoContext(ctx, "验证码已生成", log.String("email", email), log.String("otp", code))
	}
	return s
}

// SignInOutput 登录结果
type SignInOutput struct {
	UserID string
	Token  string
}

// SignIn 校验密码并签发 token
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInOutput, error) {
	user, ok := s.users.Authenticate(email, password)
	if !ok {
		s.logger.InfoContext(ctx, "登录失败", log.String("email", email))
		return nil, xerrors.New(xerrors.CodeInvalidCredentials, "Invalid email or password")
	}

	token, err := newToken()
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "generate token")
	}
	s.sessions.Set(ctx, sessioncache.Session{Token: token, UserID: user.ID, Email: user.Email})
	s.logger.InfoContext(ctx, "登录成功", log.String("user_id", user.ID))
	return &SignInOutput{UserID: user.ID, Token: token}, nil
}

// SendOTP 生成并投递验证码，重复发送会覆盖旧码并重置次数
func (s *Service) SendOTP(ctx context.Context, email string) error {
	key := emailKey(email)
	code := s.fixedOTP
	if code == "" {
		var err error
		if code, err = newOTP(); err != nil {
			return xerrors.Wrap(err, xerrors.CodeInternalError, "generate otp")
		}
	}

	if err := s.kv.SetWithTTL(ctx, keyOTP+key, code, otpTTL); err != nil {
		return xerrors.Wrap(err, xerrors.CodeCacheError, "store otp")
	}
	if err := s.kv.DeleteKey(ctx, keyAttempts+key); err != nil {
		return xerrors.Wrap(err, xerrors.CodeCacheError, "reset otp attempts")
	}
	s.deliver(ctx, email, code)
	return nil
}

// VerifyOTP 校验验证码，成功后邮箱在 verifiedTTL 内可用于注册
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) error {
	key := emailKey(email)
	expected, err := s.kv.GetString(ctx, keyOTP+key)
	if errors.Is(err, redis.ErrNotFound) {
		return xerrors.New(xerrors.CodeOTPInvalid, "OTP expired or not requested")
	}
	if err != nil {
		return xerrors.Wrap(err, xerrors.CodeCacheError, "load otp")
	}

	if strings.TrimSpace(otp) != expected {
		attempts, err := s.incrementAttempts(ctx, key)
		if err != nil {
			return err
		}
		if attempts >= otpMaxAttempts {
			_ = s.kv.DeleteKey(ctx, keyOTP+key, keyAttempts+key)
			s.logger.WarnContext(ctx, "验证码错误次数过多", log.String("email", email))
			return xerrors.New(xerrors.CodeOTPInvalid, "Too many incorrect attempts. Please request a new OTP")
		}
		return xerrors.New(xerrors.CodeOTPInvalid, "Invalid OTP")
	}

	if err := s.kv.DeleteKey(ctx, keyOTP+key, keyAttempts+key); err != nil {
		return xerrors.Wrap(err, xerrors.CodeCacheError, "clear otp")
	}
	if err := s.kv.SetWithTTL(ctx, keyVerified+key, "1", verifiedTTL); err != nil {
		return xerrors.Wrap(err, xerrors.CodeCacheError, "mark verified")
	}
	s.logger.InfoContext(ctx, "邮箱验证成功", log.String("email", email))
	return nil
}

func (s *Service) incrementAttempts(ctx context.Context, key string) (int, error) {
	raw, err := s.kv.GetString(ctx, keyAttempts+key)
	if err != nil && !errors.Is(err, redis.ErrNotFound) {
		return 0, xerrors.Wrap(err, xerrors.CodeCacheError, "load otp attempts")
	}
	attempts, _ := strconv.Atoi(raw)
	attempts++
	if err := s.kv.SetWithTTL(ctx, keyAttempts+key, attempts, otpTTL); err != nil {
		return 0, xerrors.Wrap(err, xerrors.CodeCacheError, "store otp attempts")
	}
	return attempts, nil
}

// SignUpInput 注册参数
type SignUpInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// SignUp 创建账号，邮箱必须已通过验证且未被注册
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*User, error) {
	key := emailKey(in.Email)
	verified, err := s.kv.Exists(ctx, keyVerified+key)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeCacheError, "check verified")
	}
	if !verified {
		return nil, xerrors.New(xerrors.CodeEmailNotVerified, "Email not verified. Please verify your OTP first")
	}

	user, created, err := s.users.Create(strings.TrimSpace(in.Name), in.Email, strings.TrimSpace(in.PhoneNumber), in.Password)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "hash password")
	}
	if !created {
		return nil, xerrors.New(xerrors.CodeUserAlreadyExists, "An account with this email already exists")
	}

	_ = s.kv.DeleteKey(ctx, keyVerified+key)
	s.logger.InfoContext(ctx, "用户注册成功", log.String("user_id", user.ID), log.String("email", user.Email))
	return user, nil
}

// Authorize 校验 Bearer token
func (s *Service) Authorize(ctx context.Context, token string) (sessioncache.Session, error) {
	session, ok := s.sessions.Get(ctx, token)
	if !ok {
		return sessioncache.Session{}, xerrors.New(xerrors.CodeInvalidToken, "Invalid or expired token")
	}
	return session, nil
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
