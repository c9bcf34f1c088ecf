package middlewares

import (
	"net/http"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/utils"
)

// APIKeyAuth rejects requests without the configured key. When no key is
// configured the check is disabled, which only makes sense in development.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configuredKey := m.InternalConfig.App.APIKey
		if configuredKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get(constvars.HeaderAPIKey)
		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyRequired(nil))
			return
		}
		if apiKey != configuredKey {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
