package middlewares

import (
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/config"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
}
