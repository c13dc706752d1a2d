package workers

import (
	"context"
	"time"

	"shophub_backend/internal/logger"
	"shophub_backend/internal/repositories"
)

// OtpWorker периодически вычищает истекшие строки OTP
type OtpWorker struct {
	otpRepo  repositories.OtpRepository
	interval time.Duration
}

func NewOtpWorker(otpRepo repositories.OtpRepository, interval time.Duration) *OtpWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &OtpWorker{otpRepo: otpRepo, interval: interval}
}

// Start запускает фоновую очистку
func (w *OtpWorker) Start(ctx context.Context) {
	go w.purgeExpired(ctx)
}

func (w *OtpWorker) purgeExpired(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("otp worker stopped")
			return
		case <-ticker.C:
			removed, err := w.otpRepo.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.WorkerLog("otp", "purge expired codes", err)
				continue
			}
			if removed > 0 {
				logger.Info("expired otp codes purged", "count", removed)
			}
		}
	}
}
