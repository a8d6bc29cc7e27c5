package config

import (
	"regexp"
	"sort"
	"time"
)

const (
	DefaultPort    = 8888
	DefaultEnvFile = ".env"
)

var defaults = map[string]any{
	"app_env":                 "development",
	"server.port":             DefaultPort,
	"server.static_dir":       "public",
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.shutdown_timeout": 10 * time.Second,
	"log.level":               "info",
	"log.dir":                 "logs",
	"access_log.max_files":    30,
	"access_log.compress":     true,
	"mail.host":               "smtp.gmail.com",
	"mail.port":               587,
	"mail.username":           "",
	"mail.password":           "",
	"mail.to":                 "",
	"mail.sender_name":        "Kontaktskjema Athenæum",
	"mail.subject":            "Bestilling av rom for Namsos Athenæum",
	"mail.timeout":            15 * time.Second,
	"recaptcha.secret_key":    "",
	"recaptcha.site_key":      "",
	"recaptcha.verify_url":    "https://www.google.com/recaptcha/api/siteverify",
	"recaptcha.timeout":       10 * time.Second,
	"venue.timezone":          "Europe/Oslo",
	"venue.resources":         []string{"Storsalen", "Lillesalen", "Peisestua", "Kjøkkenet"},
	"amqp_url":                "",
}

// envBindings maps config keys to the environment variables read for them, in order.
var envBindings = map[string][]string{
	"app_env":                 {"APP_ENV", "NODE_ENV"},
	"server.port":             {"PORT"},
	"server.static_dir":       {"STATIC_DIR"},
	"server.read_timeout":     {"READ_TIMEOUT"},
	"server.write_timeout":    {"WRITE_TIMEOUT"},
	"server.shutdown_timeout": {"SHUTDOWN_TIMEOUT"},
	"log.level":               {"LOG_LEVEL"},
	"log.dir":                 {"LOG_DIR"},
	"access_log.max_files":    {"ACCESS_LOG_MAX_FILES"},
	"access_log.compress":     {"ACCESS_LOG_COMPRESS"},
	"mail.host":               {"SMTP_HOST"},
	"mail.port":               {"SMTP_PORT"},
	"mail.username":           {"EMAIL_ADDRESS"},
	"mail.password":           {"EMAIL_PASSWORD"},
	"mail.to":                 {"EMAIL_ADDRESS_TO"},
	"mail.sender_name":        {"MAIL_SENDER_NAME"},
	"mail.subject":            {"MAIL_SUBJECT"},
	"mail.timeout":            {"SMTP_TIMEOUT"},
	"recaptcha.secret_key":    {"RECAPTCHA_SECRET_KEY"},
	"recaptcha.site_key":      {"RECAPTCHA_SITE_KEY"},
	"recaptcha.verify_url":    {"RECAPTCHA_VERIFY_URL"},
	"recaptcha.timeout":       {"RECAPTCHA_TIMEOUT"},
	"venue.timezone":          {"VENUE_TIMEZONE"},
	"venue.resources":         {"VENUE_RESOURCES"},
	"amqp_url":                {"AMQP_URL"},
}

var flagBindings = map[string]string{
	"port":      "server.port",
	"log-level": "log.level",
	"log-dir":   "log.dir",
}

var credentialRegex = regexp.MustCompile(`(://)[^:@/]+:[^@/]+@`)

func redactURL(u string) string {
	return credentialRegex.ReplaceAllString(u, "${1}***:***@")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
