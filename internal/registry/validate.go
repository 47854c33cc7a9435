package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/funwith/internal/ctxlog"
)

// ValidateRegistry checks that a handler is registered for every required
// state kind. It reports all missing kinds at once.
func (r *Registry) ValidateRegistry(ctx context.Context, required ...string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validating state registry.", "registered", len(r.StateRegistry), "required", len(required))

	var missing []string
	for _, name := range required {
		if _, ok := r.StateRegistry[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("registry validation failed: no handler for state(s) %s", strings.Join(missing, ", "))
	}

	logger.Debug("State registry is valid.")
	return nil
}
