package expenseclient

import (
	"fmt"
	"strings"

	"expense-tracker/internal/modules/auth/flow"
	"expense-tracker/internal/modules/dashboard"
	"expense-tracker/internal/pkg/i18n"
	"expense-tracker/internal/pkg/notify"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) t(key i18n.Key, args ...any) string {
	return i18n.Translate(m.deps.Language, key, args...)
}

// View 实现 tea.Model
func (m Model) View() string {
	var body string
	if m.screen == screenDashboard {
		body = m.viewDashboard()
	} else {
		body = m.viewAuth()
	}
	return lipgloss.NewStyle().Padding(1, 4).Render(body)
}

func (m Model) viewAuth() string {
	title, subtitle, link := m.t(i18n.TitleLogin), m.t(i18n.SubtitleLogin), m.t(i18n.LinkToRegister)
	if m.state.Mode == flow.ModeRegister {
		title, subtitle, link = m.t(i18n.TitleRegister), m.t(i18n.SubtitleRegister), m.t(i18n.LinkToLogin)
	}

	lines := []string{titleStyle.Render(title), subtitleStyle.Render(subtitle), ""}
	for i, def := range m.state.Fields() {
		label := labelStyle.Render(m.t(def.Label))
		if i == m.focus && !m.state.OTPDialogOpen() {
			label = focusedStyle.Render("> ") + label
		} else {
			label = "  " + label
		}
		lines = append(lines, label, "  "+m.inputs[i].View())
		if msg := m.fieldError(def.Name); msg != "" {
			lines = append(lines, "  "+errorStyle.Render(msg))
		}
	}
	lines = append(lines, "", m.viewButton(title))

	if m.state.OTPDialogOpen() {
		lines = append(lines, "", m.viewOTPDialog())
	}

	lines = append(lines, "", navStyle.Render(link))
	if toast := m.viewToast(); toast != "" {
		lines = append(lines, "", toast)
	}
	lines = append(lines, "", navStyle.Render(m.t(i18n.HelpKeys)))
	return strings.Join(lines, "\n")
}

func (m Model) viewButton(idle string) string {
	if !m.state.Loading && !m.pending {
		return buttonStyle.Render(idle)
	}
	var label string
	switch m.state.Phase {
	case flow.PhaseSubmitting:
		label = m.t(i18n.ButtonLoggingIn)
	case flow.PhaseRequestingOTP:
		label = m.t(i18n.ButtonSendingOTP)
	default:
		label = m.t(i18n.ButtonVerifying)
	}
	return m.spinner.View() + " " + label
}

func (m Model) viewOTPDialog() string {
	lines := []string{
		titleStyle.Render(m.t(i18n.TitleVerifyEmail)),
		m.t(i18n.PromptOTP, m.state.Challenge.Email),
		"",
		labelStyle.Render(m.t(i18n.LabelOTP)) + " " + m.otp.View(),
	}
	if m.state.Loading || m.pending {
		lines = append(lines, "", m.spinner.View()+" "+m.t(i18n.ButtonVerifying))
	}
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewToast() string {
	if m.toast == nil {
		return ""
	}
	switch m.toast.Severity {
	case notify.SeverityError:
		return errorStyle.Render(m.toast.Message)
	case notify.SeveritySuccess:
		return successStyle.Render(m.toast.Message)
	default:
		return infoStyle.Render(m.toast.Message)
	}
}

func (m Model) viewDashboard() string {
	lines := []string{titleStyle.Render(m.t(i18n.DashboardTitle)), subtitleStyle.Render(m.t(i18n.DashboardWelcome)), ""}
	if toast := m.viewToast(); toast != "" {
		lines = append(lines, toast, "")
	}

	switch {
	case m.loadingDash:
		lines = append(lines, m.spinner.View()+" "+m.t(i18n.DashboardLoading))
	case m.overviewErr != nil:
		lines = append(lines, errorStyle.Render(flow.DisplayMessage(m.overviewErr, m.t(i18n.MsgDashboardError))))
	case m.overview != nil:
		lines = append(lines, m.viewOverview(m.overview))
	}

	lines = append(lines, "", navStyle.Render(m.t(i18n.HelpDashboard)))
	return strings.Join(lines, "\n")
}

func (m Model) viewOverview(ov *dashboard.Overview) string {
	recent := []string{labelStyle.Render(m.t(i18n.RecentExpensesHdr))}
	for _, e := range ov.Recent {
		recent = append(recent, fmt.Sprintf("%s  %-14s %-24s %10s", e.Date, e.Category, e.Description, dashboard.FormatAmount(e.Amount)))
	}
	recent = append(recent, fmt.Sprintf("%52s", dashboard.FormatAmount(ov.RecentTotal)))

	monthly := []string{labelStyle.Render(m.t(i18n.MonthlyHdr))}
	for _, mt := range ov.Monthly {
		monthly = append(monthly, fmt.Sprintf("%-5s %10s", mt.Name, dashboard.FormatAmount(mt.Expenses)))
	}

	categories := []string{labelStyle.Render(m.t(i18n.CategoriesHdr))}
	for _, c := range ov.Categories {
		categories = append(categories, fmt.Sprintf("%-14s %10s", c.Name, dashboard.FormatAmount(c.Value)))
	}

	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(strings.Join(monthly, "\n")),
		" ",
		panelStyle.Render(strings.Join(categories, "\n")),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panelStyle.Render(strings.Join(recent, "\n")), charts)
}
