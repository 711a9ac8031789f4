// redact маскирует персональные данные перед записью в лог.
package redact

import "strings"

// Email оставляет первые две руны локальной части и домен.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := []rune(parts[0]), parts[1]
	if len(local) > 2 {
		return string(local[:2]) + "***@" + domain
	}

	return "***@" + domain
}

// Text укорачивает пользовательский текст (сообщения, промпты) до max рун.
func Text(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return "***"
	}

	if len(r) <= max {
		return s
	}

	return string(r[:max]) + "..."
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
