package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendRuntime    = "runtime"
	BackendWhisperCLI = "whisper-cli"
	BackendOpenAI     = "openai"

	DefaultMaxUploadBytes = 16 * 1024 * 1024
)

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type UploadConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

type CheckpointConfig struct {
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"`
}

type ModelsConfig struct {
	Device      string           `mapstructure:"device"`
	Speech      CheckpointConfig `mapstructure:"speech"`
	Translation CheckpointConfig `mapstructure:"translation"`
}

// RuntimeConfig points at the model-serving sidecar used by the "runtime" backends.
type RuntimeConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WhisperCLIConfig struct {
	Path    string `mapstructure:"path"`
	Threads int    `mapstructure:"threads"`
}

type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type Settings struct {
	Server     ServerConfig     `mapstructure:"server"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Models     ModelsConfig     `mapstructure:"models"`
	Runtime    RuntimeConfig    `mapstructure:"runtime"`
	WhisperCLI WhisperCLIConfig `mapstructure:"whisper_cli"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Env        string           `mapstructure:"env"`
	Debug      bool             `mapstructure:"debug"`
}

// Load reads config_<env>.yaml from the working directory (or ./config),
// overlaid with VIETRANS_* environment variables. A missing file is fine;
// defaults and the environment still apply.
func Load() (*Settings, error) {
	// .env is optional
	_ = godotenv.Load()

	return LoadWith(viper.New(), genEnv())
}

// LoadWith is Load against a caller-supplied viper instance.
func LoadWith(v *viper.Viper, env string) (*Settings, error) {
	setDefaults(v)
	v.SetEnvPrefix("VIETRANS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config_" + env)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if settings.Env == "" {
		settings.Env = env
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Models.Speech.Path) == "" {
		return errors.New("models.speech.path is required")
	}
	if strings.TrimSpace(s.Models.Translation.Path) == "" {
		return errors.New("models.translation.path is required")
	}
	if s.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", s.Upload.MaxBytes)
	}

	switch s.Models.Speech.Backend {
	case BackendRuntime, BackendWhisperCLI, BackendOpenAI:
	default:
		return fmt.Errorf("unknown speech backend %q", s.Models.Speech.Backend)
	}
	if s.Models.Translation.Backend != BackendRuntime {
		return fmt.Errorf("unknown translation backend %q", s.Models.Translation.Backend)
	}

	switch s.Models.Device {
	case "auto", "cuda", "mps", "cpu":
	default:
		return fmt.Errorf("unknown device %q (auto|cuda|mps|cpu)", s.Models.Device)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.read_header_timeout", 10*time.Second)

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", DefaultMaxUploadBytes)

	v.SetDefault("models.device", "auto")
	v.SetDefault("models.speech.path", "../model_fine-tuned_whisper")
	v.SetDefault("models.speech.backend", BackendRuntime)
	v.SetDefault("models.translation.path", "../model_trans_vie2en")
	v.SetDefault("models.translation.backend", BackendRuntime)

	v.SetDefault("runtime.url", "http://localhost:8500")
	v.SetDefault("runtime.timeout", 120*time.Second)

	v.SetDefault("whisper_cli.path", "whisper-cli")
	v.SetDefault("whisper_cli.threads", 0)

	v.SetDefault("openai.base_url", "http://localhost:8000/v1")
	v.SetDefault("openai.model", "whisper-1")
}

func genEnv() string {
	viper.AutomaticEnv()
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
