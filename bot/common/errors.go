package common

import (
	"errors"
	"fmt"

	"courtside/service"
)

// IsUserError reports whether err is a rejection the invoker caused and can correct
func IsUserError(err error) bool {
	return errors.Is(err, service.ErrNotJoined) ||
		errors.Is(err, service.ErrCooldown) ||
		errors.Is(err, service.ErrInvalidAmount) ||
		errors.Is(err, service.ErrInsufficientFunds) ||
		errors.Is(err, service.ErrInvalidArgument)
}

// ErrorMessage renders err as user facing text
func ErrorMessage(err error) string {
	var cooldownErr *service.CooldownError
	if errors.As(err, &cooldownErr) {
		return fmt.Sprintf("⏳ 冷卻中，請於 %s 再試一次。", FormatDiscordTimestamp(cooldownErr.Until, "R"))
	}

	var fundsErr *service.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		where := "錢包"
		if fundsErr.Balance == "bank" {
			where = "銀行"
		}
		return fmt.Sprintf("💸 %s餘額不足：目前 %s 籌碼，需要 %s 籌碼。",
			where, FormatChips(fundsErr.Available), FormatChips(fundsErr.Required))
	}

	switch {
	case errors.Is(err, service.ErrNotJoined):
		return "🙋 你還沒加入，請先使用 `/join` 領取起始籌碼。"
	case errors.Is(err, service.ErrInvalidAmount):
		return "❌ 金額無效：必須是正整數且不得超過下注上限。"
	case errors.Is(err, service.ErrInvalidArgument):
		return "❌ 參數無效，請檢查你的選項。"
	default:
		return "⚠️ 發生錯誤，請稍後再試。"
	}
}
