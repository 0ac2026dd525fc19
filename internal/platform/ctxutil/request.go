package ctxutil

import "context"

type requestDataKey struct{}

// RequestData identifies one inbound request. SessionID is filled in by the
// handler once the learner's session is known.
type RequestData struct {
	TraceID   string
	RequestID string
	SessionID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(Default(ctx), requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// SetSessionID records the session on the request, if ctx carries one.
func SetSessionID(ctx context.Context, sessionID string) {
	if rd := GetRequestData(ctx); rd != nil {
		rd.SessionID = sessionID
	}
}

// LogFields returns the request ids as logger key/value pairs, skipping
// empty ones.
func LogFields(ctx context.Context) []any {
	rd := GetRequestData(ctx)
	if rd == nil {
		return nil
	}
	var kv []any
	if rd.TraceID != "" {
		kv = append(kv, "trace_id", rd.TraceID)
	}
	if rd.RequestID != "" {
		kv = append(kv, "request_id", rd.RequestID)
	}
	if rd.SessionID != "" {
		kv = append(kv, "session_id", rd.SessionID)
	}
	return kv
}
