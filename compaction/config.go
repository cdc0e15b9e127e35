package compaction

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values based on production patterns.
const (
	DefaultPreserveRecentMessages = 10
	DefaultCompressionModel       = "claude-3-5-haiku-20241022"
	DefaultCompressionThreshold   = 0.85    // trigger at 85% context usage
	DefaultStructuralCutoff       = 0.75    // skip summarization at >=75% structural reduction
	DefaultExploratoryWindow      = 10      // recent compress-candidates whose exploratory calls survive
	DefaultSummarizerMaxTokens    = 4096    // max tokens for the summarization response
	DefaultContextWindow          = 200_000 // target model context window
	DefaultSummarizeTimeout       = Duration(5 * time.Minute)
)

// Default tool policy. Critical tools carry state later turns depend on;
// exploratory tools produce results that go stale once the task moves on.
var (
	DefaultCriticalTools    = []string{"plan_approval", "todo_write"}
	DefaultExploratoryTools = []string{"search", "grep", "glob", "list_dir", "web_search"}
	DefaultFileReadTools    = []string{"read", "read_file"}
)

// Duration wraps time.Duration with YAML support for strings like "5m".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML accepts either a Go duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		td, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%w: invalid duration %q", ErrInvalidConfig, s)
		}
		*d = Duration(td)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("%w: invalid duration value", ErrInvalidConfig)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Config holds compaction configuration. It is supplied per call by the
// agent loop; the Manager holds one as its default.
type Config struct {
	// Enabled gates compaction entirely. DefaultConfig enables it;
	// the zero value disables it.
	Enabled bool `yaml:"enabled"`

	// PreserveRecentMessages is the number of trailing messages always
	// kept verbatim. The window grows backward when a tool result at its
	// edge would otherwise be split from its call.
	// Default: 10
	PreserveRecentMessages int `yaml:"preserve_recent_messages"`

	// CompressionModel is the model used for summarization. Using a
	// faster/cheaper model than the conversation model is recommended.
	// Default: "claude-3-5-haiku-20241022"
	CompressionModel string `yaml:"compression_model"`

	// CompressionThreshold is the context usage fraction (0.0-1.0) at
	// which Manager.ShouldCompact reports true.
	// Default: 0.85
	CompressionThreshold float64 `yaml:"compression_threshold"`

	// CriticalTools lists tool names whose most recent call/result pair
	// is always preserved verbatim and whose stale pairs are discarded.
	// Default: plan_approval, todo_write
	CriticalTools []string `yaml:"critical_tools"`

	// ExploratoryTools lists tool names (searches, listings) whose pairs
	// are dropped entirely once they fall outside ExploratoryWindow.
	// Default: search, grep, glob, list_dir, web_search
	ExploratoryTools []string `yaml:"exploratory_tools"`

	// ExploratoryWindow is the number of compress-candidate messages
	// immediately preceding the preserved tail within which exploratory
	// pairs survive filtering.
	// Default: 10
	ExploratoryWindow int `yaml:"exploratory_window"`

	// FileReadTools lists tool names whose calls identify a resource by
	// path; only the most recent read of an unchanged resource is kept.
	// Default: read, read_file
	FileReadTools []string `yaml:"file_read_tools"`

	// StructuralCutoff is the token-reduction fraction at which the
	// structural filtering alone is considered sufficient and the
	// summarizer is skipped.
	// Default: 0.75
	StructuralCutoff float64 `yaml:"structural_cutoff"`

	// SummarizeTimeout bounds a single summarizer call.
	// Default: 5m
	SummarizeTimeout Duration `yaml:"summarize_timeout"`

	// SummarizerMaxTokens limits the summarization response length.
	// Default: 4096
	SummarizerMaxTokens int `yaml:"summarizer_max_tokens"`

	// ContextWindow is the target model's context window, used by
	// Manager.ShouldCompact.
	// Default: 200000
	ContextWindow int `yaml:"context_window"`
}

// DefaultConfig returns a Config with compaction enabled and all defaults
// applied.
func DefaultConfig() Config {
	cfg := Config{Enabled: true}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero values with defaults. Enabled is left as
// supplied; use DefaultConfig for an enabled baseline.
func (c *Config) ApplyDefaults() {
	if c.PreserveRecentMessages == 0 {
		c.PreserveRecentMessages = DefaultPreserveRecentMessages
	}
	if c.CompressionModel == "" {
		c.CompressionModel = DefaultCompressionModel
	}
	if c.CompressionThreshold == 0 {
		c.CompressionThreshold = DefaultCompressionThreshold
	}
	if c.CriticalTools == nil {
		c.CriticalTools = DefaultCriticalTools
	}
	if c.ExploratoryTools == nil {
		c.ExploratoryTools = DefaultExploratoryTools
	}
	if c.ExploratoryWindow == 0 {
		c.ExploratoryWindow = DefaultExploratoryWindow
	}
	if c.FileReadTools == nil {
		c.FileReadTools = DefaultFileReadTools
	}
	if c.StructuralCutoff == 0 {
		c.StructuralCutoff = DefaultStructuralCutoff
	}
	if c.SummarizeTimeout == 0 {
		c.SummarizeTimeout = DefaultSummarizeTimeout
	}
	if c.SummarizerMaxTokens == 0 {
		c.SummarizerMaxTokens = DefaultSummarizerMaxTokens
	}
	if c.ContextWindow == 0 {
		c.ContextWindow = DefaultContextWindow
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.PreserveRecentMessages < 0 {
		return fmt.Errorf("%w: preserve_recent_messages must be non-negative, got %d",
			ErrInvalidConfig, c.PreserveRecentMessages)
	}
	if c.CompressionThreshold <= 0 || c.CompressionThreshold > 1.0 {
		return fmt.Errorf("%w: compression_threshold must be between 0 and 1, got %f",
			ErrInvalidConfig, c.CompressionThreshold)
	}
	if c.StructuralCutoff <= 0 || c.StructuralCutoff > 1.0 {
		return fmt.Errorf("%w: structural_cutoff must be between 0 and 1, got %f",
			ErrInvalidConfig, c.StructuralCutoff)
	}
	if c.ExploratoryWindow < 0 {
		return fmt.Errorf("%w: exploratory_window must be non-negative, got %d",
			ErrInvalidConfig, c.ExploratoryWindow)
	}
	if c.CompressionModel == "" {
		return fmt.Errorf("%w: compression_model is required", ErrInvalidConfig)
	}
	if c.SummarizeTimeout < 0 {
		return fmt.Errorf("%w: summarize_timeout must be non-negative", ErrInvalidConfig)
	}
	if c.SummarizerMaxTokens <= 0 {
		return fmt.Errorf("%w: summarizer_max_tokens must be positive, got %d",
			ErrInvalidConfig, c.SummarizerMaxTokens)
	}
	if c.ContextWindow <= 0 {
		return fmt.Errorf("%w: context_window must be positive, got %d",
			ErrInvalidConfig, c.ContextWindow)
	}
	return nil
}

// LoadFile reads a YAML configuration file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read compaction config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse compaction config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// TriggerThreshold returns the absolute token count at which compaction
// should be triggered.
func (c *Config) TriggerThreshold() int {
	return int(float64(c.ContextWindow) * c.CompressionThreshold)
}
