package internal

import (
	"fmt"
	"strings"
	"time"
)

// Config is shared by the relay and the inspect tool, decoded from the environment with go-env.
type Config struct {
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=8080"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=./data/badger"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	DBSchema          string        `env:"DB_SCHEMA,default=chat_relay"`
	DBMaxConns        int32         `env:"DB_MAX_CONNS,default=10"`
	AckTimeout        time.Duration `env:"ACK_TIMEOUT,default=3s"`
	PollInterval      time.Duration `env:"POLL_INTERVAL,default=1s"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	CensoredWords     string        `env:"CENSORED_WORDS"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=5s"`
	WSRatePerSec      float64       `env:"WS_RATE_PER_SEC,default=20"`
	DebugPort         int           `env:"DEBUG_PORT,default=8081"`
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UsePostgres is true when DATABASE_URL is set. Badger is the default store.
func (c Config) UsePostgres() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// Words splits CENSORED_WORDS on commas, dropping blanks.
func (c Config) Words() []string {
	var words []string
	for _, w := range strings.Split(c.CensoredWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
