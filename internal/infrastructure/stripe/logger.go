package stripe

import (
	"fmt"

	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// leveledLogger redirige los logs del SDK de Stripe a zerolog.
type leveledLogger struct {
	log *logger.Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Str("component", "stripe-sdk").Msg(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.log.Debug().Str("component", "stripe-sdk").Msg(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Str("component", "stripe-sdk").Msg(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Str("component", "stripe-sdk").Msg(fmt.Sprintf(format, v...))
}
