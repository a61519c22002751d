package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const (
	EnvPrefix   = "MEDWEAR_"
	DefaultFile = "medwear.yaml"
)

type Config struct {
	API     API     `json:"api" yaml:"api"`
	Mock    Mock    `json:"mock" yaml:"mock"`
	Auth    Auth    `json:"auth" yaml:"auth"`
	Log     Log     `json:"log" yaml:"log"`
	Catalog Catalog `json:"catalog" yaml:"catalog"`
	Export  Export  `json:"export" yaml:"export"`
}

type API struct {
	BaseURL string        `json:"baseURL" yaml:"baseURL"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	UseMock bool          `json:"useMock" yaml:"useMock"`
}

// Mock configures the in-process fixture backend and the mockapi server.
type Mock struct {
	Latency     time.Duration `json:"latency" yaml:"latency"`
	Addr        string        `json:"addr" yaml:"addr"`
	RequireAuth bool          `json:"requireAuth" yaml:"requireAuth"`
	Secret      string        `json:"secret" yaml:"secret"`
}

type Auth struct {
	TokenFile string `json:"tokenFile" yaml:"tokenFile"`
	Email     string `json:"email" yaml:"email"`
	Password  string `json:"password" yaml:"password"`
}

type Log struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

type Catalog struct {
	PageSize int `json:"pageSize" yaml:"pageSize"`
}

type Export struct {
	Path string `json:"path" yaml:"path"`
}

func Default() Config {
	return Config{
		API:     API{BaseURL: "http://localhost:8000/api", Timeout: 10 * time.Second, UseMock: true},
		Mock:    Mock{Latency: 500 * time.Millisecond, Addr: ":8000"},
		Log:     Log{Level: "info", Pretty: true},
		Catalog: Catalog{PageSize: 12},
	}
}

// Load reads .env, then the first existing yaml file among paths (medwear.yaml
// when none given), then MEDWEAR_* environment variables. Later sources win.
// A missing yaml file is not an error.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	if len(paths) == 0 {
		paths = []string{DefaultFile}
	}

	k := koanf.New(".")
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", p)
		}
		break
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, v string) (string, any) {
			// MEDWEAR_API_BASEURL -> api.baseURL when the file already has it.
			return canonicalKey(strings.TrimPrefix(key, EnvPrefix), existing), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if cfg.Catalog.PageSize <= 0 {
		cfg.Catalog.PageSize = Default().Catalog.PageSize
	}
	return &cfg, nil
}

// canonicalKey maps an env suffix onto the key casing used by the loaded
// file so both sources land on the same koanf path.
func canonicalKey(raw string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(raw), "_")
	out := make([]string, 0, len(segments))
	current := existing
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		matched := seg
		var next map[string]any
		for key, val := range current {
			if strings.EqualFold(key, seg) {
				matched = key
				next, _ = val.(map[string]any)
				break
			}
		}
		out = append(out, matched)
		current = next
	}
	return strings.Join(out, ".")
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(l Log) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(l.Level)))
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if l.Pretty {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
		return
	}
	zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
