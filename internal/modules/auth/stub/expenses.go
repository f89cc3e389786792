package stub

import (
	"encoding/json"
	"time"
)

// Expense 最近支出
type Expense struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
}

// MonthlyTotal 月度支出
type MonthlyTotal struct {
	Name     string      `json:"name"`
	Expenses json.Number `json:"expenses"`
}

// CategoryTotal 分类支出
type CategoryTotal struct {
	Name  string      `json:"name"`
	Value json.Number `json:"value"`
}

// demoExpenses 任意登录用户看到的演示数据，日期相对 now 生成
func demoExpenses(now time.Time) []Expense {
	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format("2006-01-02")
	}
	return []Expense{
		{ID: "e-1001", Date: day(0), Category: "Food", Description: "Groceries", Amount: "54.20"},
		{ID: "e-1002", Date: day(1), Category: "Transport", Description: "Metro card top-up", Amount: "20.00"},
		{ID: "e-1003", Date: day(2), Category: "Utilities", Description: "", Amount: "86.45"},
		{ID: "e-1004", Date: day(4), Category: "Entertainment", Description: "Cinema", Amount: "18.50"},
		{ID: "e-1005", Date: day(6), Category: "Food", Description: "Lunch with team", Amount: "32.10"},
	}
}

func demoMonthly(now time.Time) []MonthlyTotal {
	amounts := []json.Number{"1210.35", "980.10", "1105.75", "1342.00", "890.60", "1023.45"}
	out := make([]MonthlyTotal, 0, len(amounts))
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := range amounts {
		month := first.AddDate(0, i-len(amounts)+1, 0)
		out = append(out, MonthlyTotal{Name: month.Format("Jan"), Expenses: amounts[i]})
	}
	return out
}

func demoCategories() []CategoryTotal {
	return []CategoryTotal{
		{Name: "Food", Value: "412.30"},
		{Name: "Transport", Value: "120.00"},
		{Name: "Utilities", Value: "286.45"},
		{Name: "Entertainment", Value: "96.50"},
	}
}
