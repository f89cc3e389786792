package stub

import (
	"context"
	"sort"

	"expense-tracker/internal/pkg/log"

	"github.com/robfig/cron/v3"
)

// DefaultCleanupSchedule 每 5 分钟一次，秒 分 时 日 月 周
const DefaultCleanupSchedule = "0 */5 * * * *"

// Purger 能批量清理过期条目的内存存储
type Purger interface {
	PurgeExpired(ctx context.Context) int
}

// CleanupTask 定时回收过期的验证码、验证标记和登录 token
type CleanupTask struct {
	schedule string
	targets  map[string]Purger
	logger   log.Logger
	cron     *cron.Cron
}

// NewCleanupTask schedule 为空时使用 DefaultCleanupSchedule
func NewCleanupTask(schedule string, logger log.Logger) *CleanupTask {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &CleanupTask{
		schedule: schedule,
		targets:  make(map[string]Purger),
		logger:   logger.With("task", "stub_cleanup"),
	}
}

// Add 注册一个清理目标，Start 之前调用
func (t *CleanupTask) Add(name string, p Purger) {
	if p != nil {
		t.targets[name] = p
	}
}

// Start 启动调度器，表达式非法时返回错误
func (t *CleanupTask) Start() error {
	t.cron = cron.New(cron.WithSeconds())
	if _, err := t.cron.AddFunc(t.schedule, func() { t.RunOnce(context.Background()) }); err != nil {
		t.logger.Error("添加过期数据清理任务失败", err, log.String("schedule", t.schedule))
		t.cron = nil
		return err
	}
	t.cron.Start()
	t.logger.Info("过期数据清理任务已启动", log.String("schedule", t.schedule), log.Int("targets", len(t.targets)))
	return nil
}

// Stop 等待正在执行的清理结束
func (t *CleanupTask) Stop() {
	if t.cron == nil {
		return
	}
	<-t.cron.Stop().Done()
	t.logger.Info("过期数据清理任务已停止")
}

// RunOnce 清理所有目标一次，返回总清理数量
func (t *CleanupTask) RunOnce(ctx context.Context) int {
	names := make([]string, 0, len(t.targets))
	for name := range t.targets {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		n := t.targets[name].PurgeExpired(ctx)
		if n > 0 {
			t.logger.DebugContext(ctx, "清理过期数据", log.String("target", name), log.Int("count", n))
		}
		total += n
	}
	return total
}
