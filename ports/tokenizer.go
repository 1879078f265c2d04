package ports

import "github.com/theweboftrust/wot.id/core"

// Tokenizer converts between sessions and signed, time-bounded tokens.
// The token subject is always the session's DID.
type Tokenizer interface {
	SessionToAccessToken(session *core.Session) (string, error)
	AccessTokenToSession(token string) (*core.Session, error)
	SessionToRefreshToken(session *core.Session) (string, error)
	RefreshTokenToSession(token string) (*core.Session, error)
}
