package publishers

// Logger is the logging surface publishers write delivery outcomes to.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// logDelivered records a successful audit delivery at debug level.
func logDelivered(log Logger, typ, id string, evt Event, extra map[string]any) {
	fields := map[string]any{
		"publisher_id": id,
		"event_id":     evt.ID,
		"action":       evt.Action,
	}
	for k, v := range extra {
		fields[k] = v
	}
	log.DebugObj(typ+" publisher delivered event", "publisher_"+typ+"_delivery", fields)
}

// logFailed records a failed audit delivery. The event payload is not logged.
func logFailed(log Logger, typ, id string, evt Event, err error) {
	log.ErrorObj(typ+" publisher send failed", "publisher_"+typ+"_error", map[string]any{
		"publisher_id": id,
		"event_id":     evt.ID,
		"action":       evt.Action,
		"error":        err.Error(),
	})
}
