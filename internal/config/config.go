package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProductionEndpoint = "https://stockanalysischatbot-production.up.railway.app/api/chat"
	LocalEndpoint      = "http://127.0.0.1:8000/api/chat"
)

type Config struct {
	Chat   ChatConfig   `mapstructure:"chat"`
	Log    LogConfig    `mapstructure:"log"`
	Speech SpeechConfig `mapstructure:"speech"`
}

type ChatConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	PromptID   string        `mapstructure:"prompt_id"`
	ThreadID   string        `mapstructure:"thread_id"`
	ResponseID string        `mapstructure:"response_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Dev   bool   `mapstructure:"dev"`
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

type SpeechConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Language       string        `mapstructure:"language"`
	ModelPath      string        `mapstructure:"model_path"`
	DumpDir        string        `mapstructure:"dump_dir"`
	MinVolume      float64       `mapstructure:"min_volume"`
	SilenceTimeout time.Duration `mapstructure:"silence_timeout"`
	MaxDuration    time.Duration `mapstructure:"max_duration"`
	ListenTimeout  time.Duration `mapstructure:"listen_timeout"`
}

// Flags are the command-line values applied on top of file and env config.
type Flags struct {
	Dev      bool
	LogPath  string
	Endpoint string
	Local    bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chat.endpoint", ProductionEndpoint)
	v.SetDefault("chat.prompt_id", "1")
	v.SetDefault("chat.thread_id", "t1")
	v.SetDefault("chat.response_id", "1")
	v.SetDefault("chat.timeout", time.Duration(0))

	v.SetDefault("log.dev", false)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.language", "en-US")
	v.SetDefault("speech.model_path", "./silero_vad.onnx")
	v.SetDefault("speech.dump_dir", "")
	v.SetDefault("speech.min_volume", 450.0)
	v.SetDefault("speech.silence_timeout", time.Second)
	v.SetDefault("speech.max_duration", 25*time.Second)
	v.SetDefault("speech.listen_timeout", 10*time.Second)
}

// Load reads the optional YAML file at path, then STOCKCHAT_* environment
// variables (a .env file in the working directory is loaded first), and
// finally applies flags.
func Load(path string, flags Flags) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOCKCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// The speech key has historically been read from API_KEY.
	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = os.Getenv("API_KEY")
	}

	applyFlags(cfg, flags)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *Config, flags Flags) {
	if flags.Dev {
		cfg.Log.Dev = true
	}
	if flags.LogPath != "" {
		cfg.Log.Path = flags.LogPath
	}
	if flags.Local {
		cfg.Chat.Endpoint = LocalEndpoint
	}
	if flags.Endpoint != "" {
		cfg.Chat.Endpoint = flags.Endpoint
	}
}

func (c *Config) validate() error {
	if c.Chat.Endpoint == "" {
		return errors.New("chat endpoint is required")
	}
	if c.Chat.Timeout < 0 {
		return errors.New("chat timeout must not be negative")
	}
	return nil
}
