// Package dashboard 登录后的仪表盘数据读取，只通过只读会话访问凭据
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"expense-tracker/internal/modules/auth/session"
	"expense-tracker/internal/pkg/i18n"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/ericlagergren/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// 指标与日志中的操作名
const (
	OpRecent     = "expense_recent"
	OpMonthly    = "expense_monthly"
	OpCategories = "expense_categories"
)

// Fetcher 带 Bearer token 的 GET，*client.BackendClient 满足
type Fetcher interface {
	GetJSON(ctx context.Context, operation, path, token string, out any) error
}

// Expense 单笔支出
type Expense struct {
	ID          string
	Date        string
	Category    string
	Description string
	Amount      *decimal.Big
}

// MonthlyTotal 月度合计
type MonthlyTotal struct {
	Name     string
	Expenses *decimal.Big
}

// CategoryTotal 分类合计
type CategoryTotal struct {
	Name  string
	Value *decimal.Big
}

// Overview 仪表盘全部数据
type Overview struct {
	Recent     []Expense
	Monthly    []MonthlyTotal
	Categories []CategoryTotal
	// RecentTotal 最近支出合计
	RecentTotal *decimal.Big
	// CategoriesTotal 分类合计之和
	CategoriesTotal *decimal.Big
}

// Service 仪表盘读取服务，无状态，每次调用都重新拉取
type Service struct {
	session session.Reader
	fetcher Fetcher
	lang    language.Tag
	logger  log.Logger
}

// New 创建仪表盘服务
func New(reader session.Reader, fetcher Fetcher, lang language.Tag, logger log.Logger) *Service {
	if logger == nil {
		logger = log.GetLogger()
	}
	if lang == language.Und {
		lang = i18n.DefaultLanguage
	}
	return &Service{
		session: reader,
		fetcher: fetcher,
		lang:    lang,
		logger:  logger.With("module", "dashboard"),
	}
}

type expenseWire struct {
	ID          json.RawMessage `json:"id"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      json.Number     `json:"amount"`
}

type monthlyWire struct {
	Name     string      `json:"name"`
	Expenses json.Number `json:"expenses"`
}

type categoryWire struct {
	Name  string      `json:"name"`
	Value json.Number `json:"value"`
}

// RecentExpenses 最近支出，空描述显示为 "No description"
func (s *Service) RecentExpenses(ctx context.Context) ([]Expense, error) {
	var wire []expenseWire
	if err := s.get(ctx, OpRecent, "recent", &wire); err != nil {
		return nil, err
	}

	out := make([]Expense, 0, len(wire))
	for _, w := range wire {
		amount, err := parseAmount(OpRecent, w.Amount)
		if err != nil {
			return nil, err
		}
		desc := strings.TrimSpace(w.Description)
		if desc == "" {
			desc = i18n.Translate(s.lang, i18n.NoDescription)
		}
		out = append(out, Expense{
			ID:          rawID(w.ID),
			Date:        w.Date,
			Category:    w.Category,
			Description: desc,
			Amount:      amount,
		})
	}
	return out, nil
}

// MonthlyExpenses 月度支出
func (s *Service) MonthlyExpenses(ctx context.Context) ([]MonthlyTotal, error) {
	var wire []monthlyWire
	if err := s.get(ctx, OpMonthly, "monthly", &wire); err != nil {
		return nil, err
	}
	out := make([]MonthlyTotal, 0, len(wire))
	for _, w := range wire {
		amount, err := parseAmount(OpMonthly, w.Expenses)
		if err != nil {
			return nil, err
		}
		out = append(out, MonthlyTotal{Name: w.Name, Expenses: amount})
	}
	return out, nil
}

// CategoryExpenses 分类支出
func (s *Service) CategoryExpenses(ctx context.Context) ([]CategoryTotal, error) {
	var wire []categoryWire
	if err := s.get(ctx, OpCategories, "categories", &wire); err != nil {
		return nil, err
	}
	out := make([]CategoryTotal, 0, len(wire))
	for _, w := range wire {
		amount, err := parseAmount(OpCategories, w.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, CategoryTotal{Name: w.Name, Value: amount})
	}
	return out, nil
}

// Overview 并行拉取三类数据，任一失败即返回
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	// 先检查会话，没有会话时不发起任何请求
	if _, err := s.session.Load(ctx); err != nil {
		return nil, err
	}

	var ov Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ov.Recent, err = s.RecentExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ov.Monthly, err = s.MonthlyExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ov.Categories, err = s.CategoryExpenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "仪表盘数据加载失败", log.Err(err))
		return nil, err
	}

	ov.RecentTotal = new(decimal.Big)
	for _, e := range ov.Recent {
		ov.RecentTotal.Add(ov.RecentTotal, e.Amount)
	}
	ov.CategoriesTotal = new(decimal.Big)
	for _, c := range ov.Categories {
		ov.CategoriesTotal.Add(ov.CategoriesTotal, c.Value)
	}
	return &ov, nil
}

func (s *Service) get(ctx context.Context, operation, kind string, out any) error {
	artifacts, err := s.session.Load(ctx)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/expense/%s/%s", kind, url.PathEscape(artifacts.UserID))
	return s.fetcher.GetJSON(ctx, operation, path, artifacts.Token, out)
}

// parseAmount 金额可以是 JSON 数字或数字字符串，缺省为 0
func parseAmount(operation string, n json.Number) (*decimal.Big, error) {
	if n == "" {
		return new(decimal.Big), nil
	}
	amount, ok := new(decimal.Big).SetString(string(n))
	if !ok || amount.IsNaN(0) || amount.IsInf(0) {
		return nil, xerrors.NewMalformedResponse(operation, fmt.Errorf("invalid amount %q", n))
	}
	return amount, nil
}

// rawID id 可能是字符串或数字
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// FormatAmount 保留两位小数
func FormatAmount(x *decimal.Big) string {
	if x == nil {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", x)
}
