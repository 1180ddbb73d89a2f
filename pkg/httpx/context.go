package httpx

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeyRole    ctxKey = "role"
	CtxKeySession ctxKey = "session" // the resolved domain.Session, set by the session middleware
)
