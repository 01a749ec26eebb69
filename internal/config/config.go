package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPrompt is used when no prompt file is configured or readable.
const DefaultPrompt = `You are a messaging digest assistant. Analyze the messages and extract key information into JSON format with the following structure:
{
  "urgent": [],
  "decisions": [],
  "topics": [],
  "people_updates": [],
  "calendar": [],
  "unanswered_mentions": []
}`

type Config struct {
	Schedule   string         `yaml:"schedule"`
	RunOnStart bool           `yaml:"run_on_start"`
	Telegram   TelegramConfig `yaml:"telegram"`
	LLM        LLMConfig      `yaml:"llm"`
	Settings   SettingsConfig `yaml:"settings"`
	Delivery   DeliveryConfig `yaml:"delivery"`
	PromptFile string         `yaml:"prompt_file"`

	// Prompt is the system prompt text, loaded from PromptFile.
	Prompt string `yaml:"-"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type LLMConfig struct {
	Provider  string          `yaml:"provider"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OllamaConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"top_p"`
}

type AnthropicConfig struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type SettingsConfig struct {
	HoursBack int    `yaml:"hours_back"`
	OutputDir string `yaml:"output_dir"`
}

type DeliveryConfig struct {
	Type string `yaml:"type"`
}

// Watchlist is the static list of chats the pipeline may read from.
type Watchlist struct {
	Chats []WatchlistEntry `yaml:"chats"`
}

// WatchlistEntry identifies one chat by numeric ID or public username.
type WatchlistEntry struct {
	Name    string `yaml:"name"`
	ChatID  int64  `yaml:"chat_id"`
	Enabled *bool  `yaml:"enabled"`
}

// IsEnabled reports whether the entry is eligible for collection.
// Entries without an explicit flag default to enabled.
func (e WatchlistEntry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Ref returns a human-readable identifier for logging.
func (e WatchlistEntry) Ref() string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("%d", e.ChatID)
}

// Enabled returns the entries that may be collected from.
func (w *Watchlist) Enabled() []WatchlistEntry {
	var out []WatchlistEntry
	for _, e := range w.Chats {
		if e.IsEnabled() {
			out = append(out, e)
		}
	}
	return out
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 8 * * *"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.OpenAI.Model == "" {
		cfg.LLM.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Ollama.BaseURL == "" {
		cfg.LLM.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.LLM.Ollama.Model == "" {
		cfg.LLM.Ollama.Model = "mistral:latest"
	}
	if cfg.LLM.Ollama.Temperature == 0 {
		cfg.LLM.Ollama.Temperature = 0.3
	}
	if cfg.LLM.Ollama.TopP == 0 {
		cfg.LLM.Ollama.TopP = 0.9
	}
	if cfg.LLM.Anthropic.Model == "" {
		cfg.LLM.Anthropic.Model = "claude-3-5-sonnet-20240620"
	}
	if cfg.LLM.Anthropic.MaxTokens == 0 {
		cfg.LLM.Anthropic.MaxTokens = 4096
	}
	if cfg.Settings.HoursBack == 0 {
		cfg.Settings.HoursBack = 24
	}
	if cfg.Settings.OutputDir == "" {
		cfg.Settings.OutputDir = "digests"
	}
	if cfg.Delivery.Type == "" {
		cfg.Delivery.Type = "telegram"
	}
}

func validate(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("config: telegram.token is required (set TELEGRAM_BOT_TOKEN env var)")
	}
	if cfg.Settings.HoursBack < 0 {
		return fmt.Errorf("config: settings.hours_back must be positive, got %d", cfg.Settings.HoursBack)
	}
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("config: llm.openai.api_key is required (set OPENAI_API_KEY env var)")
		}
	case "ollama":
		if cfg.LLM.Ollama.BaseURL == "" {
			return fmt.Errorf("config: llm.ollama.base_url is required")
		}
	case "anthropic":
		if cfg.LLM.Anthropic.APIKey == "" {
			return fmt.Errorf("config: llm.anthropic.api_key is required (set ANTHROPIC_API_KEY env var)")
		}
	default:
		return fmt.Errorf("config: unsupported llm provider %q (supported: openai, ollama, anthropic)", cfg.LLM.Provider)
	}
	switch cfg.Delivery.Type {
	case "telegram", "stdout":
	default:
		return fmt.Errorf("config: unsupported delivery type %q (supported: telegram, stdout)", cfg.Delivery.Type)
	}
	if cfg.Delivery.Type == "telegram" && cfg.Telegram.ChatID == 0 {
		return fmt.Errorf("config: telegram.chat_id is required for telegram delivery")
	}
	return nil
}

func loadPrompt(cfg *Config) {
	if cfg.PromptFile == "" {
		cfg.Prompt = DefaultPrompt
		return
	}
	data, err := os.ReadFile(cfg.PromptFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: prompt file %s not readable, using default prompt\n", cfg.PromptFile)
		cfg.Prompt = DefaultPrompt
		return
	}
	cfg.Prompt = strings.TrimSpace(string(data))
}

// Load reads the config file, expands environment variables, applies defaults,
// loads the prompt text, and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)
	loadPrompt(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWatchlist reads the watchlist file. A missing file is not an error:
// it yields an empty watchlist and the run summarizes nothing.
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Watchlist{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &wl); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	for _, e := range wl.Chats {
		if e.Name == "" && e.ChatID == 0 {
			return nil, fmt.Errorf("config: watchlist entry with neither name nor chat_id in %s", path)
		}
	}

	return &wl, nil
}
