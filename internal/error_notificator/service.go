package error_notificator

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
)

const notifyTimeout = 10 * time.Second

type Service struct {
	infra Notificator
	log   *logger.ZapLogger
}

func NewService(infra Notificator, log *logger.ZapLogger) *Service {
	return &Service{infra: infra, log: log}
}

// Notify delivers the alert without holding up the caller. Delivery failures
// are logged, never returned.
func (s *Service) Notify(_ context.Context, source string, err error, details string) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if sendErr := s.infra.Notify(ctx, source, err, details); sendErr != nil {
			s.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: fmt.Sprintf("[error_notificator] alert for %s not delivered", source),
				Service: "saga_tts",
				Error:   sendErr,
			})
		}
	}()

	return nil
}
