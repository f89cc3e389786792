// cmd/auth-stub/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-tracker/internal/modules/auth/stub"
	"expense-tracker/internal/pkg/config"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/metrics"
	"expense-tracker/internal/pkg/redis"
	"expense-tracker/internal/pkg/sessioncache"
)

func main() {
	cfg := config.LoadStub()
	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)
	logger := log.GetLogger().With("app", "auth-stub")
	logger.Info("启动 auth-stub...", "config", cfg.LogFields())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.SetServiceName(metrics.ServiceStub)
	registry := metrics.NewProcessRegistry()

	cleanup := stub.NewCleanupTask(cfg.CleanupSchedule, logger)

	var kv stub.KV
	if cfg.RedisAddr == "" {
		mem := stub.NewMemoryKV()
		cleanup.Add("otp_store", mem)
		kv = mem
	} else {
		rc, err := redis.NewClient(ctx, redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Error("连接 Redis 失败", err)
			os.Exit(1)
		}
		defer rc.Close()
		kv = rc
		logger.Info("验证码存储: Redis", log.String("addr", cfg.RedisAddr))
	}

	sessions := sessioncache.New(cfg.TokenTTL, metrics.NewCacheMetricsWithRegistry("auth_stub", registry), logger)
	cleanup.Add("sessions", sessions)
	if err := cleanup.Start(); err != nil {
		os.Exit(1)
	}
	defer cleanup.Stop()
	svc := stub.NewService(kv, sessions, stub.Options{FixedOTP: cfg.FixedOTP, TokenTTL: cfg.TokenTTL}, logger)
	e := stub.NewServer(stub.ServerOptions{
		Service:          svc,
		Logger:           logger,
		Registry:         registry,
		OTPRatePerMinute: cfg.OTPRatePerMinute,
		CORSOrigins:      cfg.CORSOrigins,
	})

	go func() {
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP 服务异常退出", err)
			stop()
		}
	}()
	logger.Info("auth-stub 已监听", log.String("addr", cfg.Addr))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务失败", err)
	}
	logger.Info("auth-stub 已退出")
}
