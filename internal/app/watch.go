package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-auth-client/pkg/authclient"
)

// Watch polls the dashboard with the stored token until the context is cancelled.
func (s *Session) Watch(ctx context.Context) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("session is not initialized")
	}
	if _, err := s.token(); err != nil {
		return err
	}

	s.log.InfoObj("watch loop starting", "watch_state", map[string]any{
		"profile":        s.profile,
		"audit_sinks":    s.audit.Size(),
		"watch_interval": s.watchInterval.String(),
	})

	s.pollOnce(ctx)

	ticker := time.NewTicker(s.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("watch loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

// pollOnce performs a single dashboard fetch and logs the outcome.
func (s *Session) pollOnce(ctx context.Context) {
	start := time.Now()
	payload, err := s.Dashboard(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fields := map[string]any{
			"error":       err.Error(),
			"kind":        authclient.KindOf(err),
			"status_code": authclient.StatusCode(err),
		}
		if authclient.StatusCode(err) == 401 {
			s.log.WarnObj("dashboard poll rejected; token may have expired", "poll_error", fields)
			return
		}
		s.log.ErrorObj("dashboard poll failed", "poll_error", fields)
		return
	}
	s.log.InfoObj("dashboard poll completed", "poll_result", map[string]any{
		"elapsed_ms": time.Since(start).Milliseconds(),
		"payload":    payload,
	})
}
