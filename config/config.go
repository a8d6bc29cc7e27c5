package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/namsos-athenaeum/athenaeum/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Mode      models.Mode     `mapstructure:"app_env"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	AccessLog AccessLogConfig `mapstructure:"access_log"`
	Mail      MailConfig      `mapstructure:"mail"`
	Recaptcha RecaptchaConfig `mapstructure:"recaptcha"`
	Venue     VenueConfig     `mapstructure:"venue"`
	AMQPURL   string          `mapstructure:"amqp_url"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	StaticDir       string        `mapstructure:"static_dir"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

type AccessLogConfig struct {
	MaxFiles int  `mapstructure:"max_files"`
	Compress bool `mapstructure:"compress"`
}

type MailConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	To         string        `mapstructure:"to"`
	SenderName string        `mapstructure:"sender_name"`
	Subject    string        `mapstructure:"subject"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RecaptchaConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	SiteKey   string        `mapstructure:"site_key"`
	VerifyURL string        `mapstructure:"verify_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type VenueConfig struct {
	TimeZone  string   `mapstructure:"timezone"`
	Resources []string `mapstructure:"resources"`
}

// Load reads envFile (if it exists) into the environment and builds the
// configuration from defaults, environment variables and, when given, flags.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Mode = models.Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	var problems []string

	if !cfg.Mode.Supported() {
		problems = append(problems, fmt.Sprintf("APP_ENV must be %q or %q, got: %q", models.ModeProduction, models.ModeDevelopment, cfg.Mode))
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", cfg.Server.Port))
	}
	if _, err := cfg.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("VENUE_TIMEZONE is not a known time zone: %q", cfg.Venue.TimeZone))
	}
	if len(cfg.Venue.Resources) == 0 {
		problems = append(problems, "VENUE_RESOURCES cannot be empty")
	}
	if cfg.Log.Dir == "" {
		problems = append(problems, "LOG_DIR cannot be empty")
	}
	if cfg.AccessLog.MaxFiles < 1 {
		problems = append(problems, fmt.Sprintf("ACCESS_LOG_MAX_FILES must be positive, got: %d", cfg.AccessLog.MaxFiles))
	}

	durations := map[string]time.Duration{
		"READ_TIMEOUT":      cfg.Server.ReadTimeout,
		"WRITE_TIMEOUT":     cfg.Server.WriteTimeout,
		"SHUTDOWN_TIMEOUT":  cfg.Server.ShutdownTimeout,
		"SMTP_TIMEOUT":      cfg.Mail.Timeout,
		"RECAPTCHA_TIMEOUT": cfg.Recaptcha.Timeout,
	}
	for _, name := range sortedKeys(durations) {
		if durations[name] <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, durations[name]))
		}
	}

	if cfg.Mode == models.ModeProduction {
		required := map[string]string{
			"EMAIL_ADDRESS":        cfg.Mail.Username,
			"EMAIL_PASSWORD":       cfg.Mail.Password,
			"EMAIL_ADDRESS_TO":     cfg.Mail.To,
			"SMTP_HOST":            cfg.Mail.Host,
			"RECAPTCHA_SECRET_KEY": cfg.Recaptcha.SecretKey,
			"RECAPTCHA_SITE_KEY":   cfg.Recaptcha.SiteKey,
		}
		for _, name := range sortedKeys(required) {
			if required[name] == "" {
				problems = append(problems, name+" is required in production")
			}
		}
		if cfg.Mail.Port < 1 || cfg.Mail.Port > 65535 {
			problems = append(problems, fmt.Sprintf("SMTP_PORT must be between 1 and 65535, got: %d", cfg.Mail.Port))
		}
	}

	if len(problems) > 0 {
		msg := "configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return errors.New(msg)
	}
	return nil
}

func (cfg *Config) Location() (*time.Location, error) {
	return time.LoadLocation(cfg.Venue.TimeZone)
}

func (cfg *Config) Addr() string {
	return ":" + strconv.Itoa(cfg.Server.Port)
}

func (cfg *Config) LogConfiguration(log *zap.Logger) {
	log.Info("configuration loaded",
		zap.String("mode", string(cfg.Mode)),
		zap.Int("port", cfg.Server.Port),
		zap.String("static_dir", cfg.Server.StaticDir),
		zap.String("log_dir", cfg.Log.Dir),
		zap.String("log_level", cfg.Log.Level),
		zap.Int("access_log_max_files", cfg.AccessLog.MaxFiles),
		zap.String("smtp", cfg.Mail.Host+":"+strconv.Itoa(cfg.Mail.Port)),
		zap.String("mail_from", cfg.Mail.Username),
		zap.String("mail_to", cfg.Mail.To),
		zap.Bool("mail_password_set", cfg.Mail.Password != ""),
		zap.Bool("recaptcha_secret_set", cfg.Recaptcha.SecretKey != ""),
		zap.String("recaptcha_site_key", cfg.Recaptcha.SiteKey),
		zap.String("venue_timezone", cfg.Venue.TimeZone),
		zap.Strings("venue_resources", cfg.Venue.Resources),
		zap.String("amqp_url", redactURL(cfg.AMQPURL)),
	)
}
