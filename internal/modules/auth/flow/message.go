package flow

import (
	"expense-tracker/internal/pkg/i18n"
	"expense-tracker/internal/pkg/xerrors"

	"golang.org/x/text/language"
)

// DisplayMessage 将错误映射为展示文案
//   - RequestFailed: 后端 message 非空时使用，否则 fallback
//   - Network: fallback
//   - Validation: "Please correct the highlighted fields"，字段明细留在 FieldErrors
func DisplayMessage(err error, fallback string) string {
	return displayMessage(i18n.DefaultLanguage, err, fallback)
}

func displayMessage(lang language.Tag, err error, fallback string) string {
	appErr, ok := xerrors.As(err)
	if !ok {
		return fallback
	}
	switch appErr.Kind {
	case xerrors.KindValidation:
		return i18n.Translate(lang, i18n.MsgFixFields)
	case xerrors.KindRequestFailed:
		if appErr.BackendMessage != "" {
			return appErr.BackendMessage
		}
		return fallback
	}
	if appErr.Code == xerrors.CodeOperationInProgress {
		return i18n.Translate(lang, i18n.MsgBusy)
	}
	return fallback
}
