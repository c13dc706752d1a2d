package sms

import (
	"context"

	"shophub_backend/internal/logger"
)

// Provider отправляет одноразовые коды. Конкретный транспорт (шлюз
// оператора и т.п.) подключается отдельной реализацией.
type Provider interface {
	SendOtp(ctx context.Context, mobile, code string) error
}

// LogProvider пишет код в лог вместо отправки. Используется в разработке
// и тестах.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) SendOtp(ctx context.Context, mobile, code string) error {
	logger.CtxInfo(ctx, "otp code issued", "mobile", mobile, "code", code)
	return nil
}
