// cmd/expense-client/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	expenseclient "expense-tracker/internal/app/expense-client"
	"expense-tracker/internal/modules/auth/client"
	"expense-tracker/internal/modules/auth/flow"
	"expense-tracker/internal/modules/auth/session"
	"expense-tracker/internal/modules/dashboard"
	"expense-tracker/internal/pkg/config"
	"expense-tracker/internal/pkg/i18n"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/metrics"
	natsx "expense-tracker/internal/pkg/nats"
	"expense-tracker/internal/pkg/notify"
	"expense-tracker/internal/pkg/redis"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadClient()

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	defer logFile.Close()
	log.InitWithWriter(logFile, log.ParseLevel(cfg.LogLevel), cfg.Environment)
	logger := log.GetLogger().With("app", "expense-client")
	logger.Info("启动 expense-client", "config", cfg.LogFields())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.SetServiceName(metrics.ServiceClient)
	registry := metrics.NewProcessRegistry()
	authMetrics := metrics.NewAuthMetricsWithRegistry("expense_client", registry)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(registry), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics 服务退出", err)
			}
		}()
		defer srv.Close()
	}

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	lang := i18n.ParseLanguageCode(cfg.Language)
	notes := notify.NewQueue(32)
	notifiers := notify.Fanout{notes}

	conn, err := natsx.Connect(cfg.NatsURL, "expense-client", logger)
	if err != nil {
		// 通知广播是可选能力，连接失败不影响登录
		logger.Warn("NATS 不可用，通知只在本地显示", log.Err(err))
	}
	if conn != nil {
		defer conn.Close()
		checker := natsx.NewHealthChecker(conn, 10*time.Second)
		go checker.Start(ctx)
		defer checker.Stop()
		notifiers = append(notifiers, notify.NewNatsPublisher(conn, cfg.NatsSubject, checker.IsHealthy, logger))
	}

	backend := client.NewBackendClient(cfg.BackendURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithMetrics(authMetrics),
		client.WithLogger(logger),
	)
	writer := session.NewWriter(storage, logger)
	router := &expenseclient.Router{}

	ctrl, err := flow.New(flow.Deps{
		Backend:   backend,
		Session:   writer,
		Notifier:  notifiers,
		Navigator: router,
		Policy:    flow.ParseVerifyPolicy(cfg.OTPPolicy),
		Language:  lang,
		Metrics:   authMetrics,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	model := expenseclient.New(expenseclient.Deps{
		Controller: ctrl,
		Dashboard:  dashboard.New(session.NewReader(storage), backend, lang, logger),
		Notes:      notes,
		Router:     router,
		Session:    writer,
		Language:   lang,
		Logger:     logger,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("界面异常退出: %w", err)
	}
	logger.Info("expense-client 已退出")
	return nil
}

// openStorage 按配置选择会话存储
func openStorage(ctx context.Context, cfg config.ClientConfig) (session.Storage, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		return session.NewMemoryStorage(), func() {}, nil
	case config.SessionStoreRedis:
		rc, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStorage(rc, "", cfg.SessionTTL), func() { _ = rc.Close() }, nil
	default:
		return session.NewFileStorage(cfg.SessionFile), func() {}, nil
	}
}
