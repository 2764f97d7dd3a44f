// redact маскирует чувствительные данные перед записью в логи.
package redact

import "strings"

const mask = "***"

// URI скрывает пароль в строке подключения, сохраняя схему, пользователя и хосты.
//
// Примеры:
//
//	"mongodb://user:secret@db:27017/articles" -> "mongodb://user:***@db:27017/articles"
//	"mongodb://secret@db"                     -> "mongodb://***@db"
//	"mongodb://db:27017"                      -> "mongodb://db:27017"
//	"not a uri"                               -> "***"
func URI(s string) string {
	i := strings.Index(s, "://")
	if i < 0 {
		return mask
	}

	scheme, rest := s[:i+3], s[i+3:]

	// userinfo заканчивается на последнем '@' до начала пути.
	authority := rest
	if j := strings.IndexAny(rest, "/?"); j >= 0 {
		authority = rest[:j]
	}

	at := strings.LastIndexByte(authority, '@')
	if at < 0 {
		return s
	}

	userinfo, tail := rest[:at], rest[at:]
	if user, _, ok := strings.Cut(userinfo, ":"); ok {
		return scheme + user + ":" + mask + tail
	}

	return scheme + mask + tail
}
