package logger

import "strings"

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

// Values outside these sets are dropped for "outcome" and kept as-is for "status".
var (
	knownStatus  = []string{"ok", "fail", "skip", "rate_limited", "cancelled"}
	knownOutcome = []string{"ok", "fail", "cancelled", "rate_limited", "invalid_input"}
)

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeEnums(fields map[string]any) {
	if s, ok := fields["status"].(string); ok {
		fields["status"] = strings.ToLower(strings.TrimSpace(s))
	}
	if o, ok := fields["outcome"].(string); ok {
		o = strings.ToLower(strings.TrimSpace(o))
		if !contains(knownOutcome, o) {
			delete(fields, "outcome")
		} else {
			fields["outcome"] = o
		}
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"action",
	"step",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"base",
	"from",
	"to",
	"entry_id",
	"items",
	"total",
	"payload",
	"username",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"db",
	"host",
	"port",
	"err",
	"err_kind",
	"err_code",
	"cause",
}
