package ctxutil

import "context"

type traceDataKey struct{}

// TraceData correlates one request across logs, spans and the response headers.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// LogFields returns the non-empty ids of ctx as logger key/value pairs.
func LogFields(ctx context.Context) []interface{} {
	var out []interface{}
	if td := GetTraceData(ctx); td != nil {
		out = appendNonEmpty(out, "trace_id", td.TraceID)
		out = appendNonEmpty(out, "request_id", td.RequestID)
	}
	if rd := GetRequestData(ctx); rd != nil {
		if rd.HasUser() {
			out = append(out, "user_id", rd.UserID.String())
		}
		out = appendNonEmpty(out, "session_id", rd.SessionID)
	}
	return out
}

func appendNonEmpty(kv []interface{}, key, val string) []interface{} {
	if val == "" {
		return kv
	}
	return append(kv, key, val)
}
