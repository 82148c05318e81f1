package config

import "time"

// segredo de desenvolvimento; em produção SESSION_SECRET é obrigatório
const devSessionSecret = "dev-only-session-secret-change-me!"

// Session é compartilhado pela API e pelo WS: os dois precisam abrir o mesmo cookie.
type Session struct {
	Secret        []byte
	SecretDefault bool
	MaxAge        time.Duration
	CookieSecure  bool
}

func loadSession() Session {
	s := Session{
		Secret:       []byte(getenv("SESSION_SECRET", devSessionSecret)),
		MaxAge:       parseDuration("SESSION_MAX_AGE", 8*time.Hour),
		CookieSecure: parseBool("COOKIE_SECURE", false),
	}
	s.SecretDefault = string(s.Secret) == devSessionSecret
	return s
}
