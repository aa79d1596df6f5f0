package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with node and component.
func Component(node, component string) zerolog.Logger {
	return log.With().Str("node", node).Str("component", component).Logger()
}
