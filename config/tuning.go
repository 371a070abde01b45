package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kaiho/aidebug/agent"
)

// TuningConfig holds the configurable thresholds the orchestrator and
// context optimizer use. Defaults match the spec; a project may override
// them via an `.aidebug.yaml` file in the working directory.
type TuningConfig struct {
	// MaxSessionSteps caps the number of orchestrator iterations per session.
	MaxSessionSteps int `yaml:"max_session_steps"`
	// ContextTokenBudget is the approximate serialized-context budget, in tokens.
	ContextTokenBudget int `yaml:"context_token_budget"`
	// FileTruncateChars is the character threshold above which cached file
	// content is truncated to head+tail in the optimized context.
	FileTruncateChars int `yaml:"file_truncate_chars"`
	// FileTruncateKeep is how many characters of head and tail are kept.
	FileTruncateKeep int `yaml:"file_truncate_keep"`
	// NotesConsolidateThreshold is the note count above which notes are compacted.
	NotesConsolidateThreshold int `yaml:"notes_consolidate_threshold"`
	// NotesMaxChars bounds the compacted notes text.
	NotesMaxChars int `yaml:"notes_max_chars"`
	// MaxRecentActions bounds the recent_actions window.
	MaxRecentActions int `yaml:"max_recent_actions"`
	// MaxErrorProgression bounds the error_progression ledger after optimization.
	MaxErrorProgression int `yaml:"max_error_progression"`
	// DedupWindowSteps is how many trailing steps are checked for duplicate signatures.
	DedupWindowSteps int `yaml:"dedup_window_steps"`
	// ConsecutiveFailureLimit is how many consecutive tool failures end the session.
	ConsecutiveFailureLimit int `yaml:"consecutive_failure_limit"`
	// StepDelayMillis paces iterations so terminal output stays observable.
	StepDelayMillis int `yaml:"step_delay_millis"`
	// DiagnosticDenylist is the substring denylist for run_diagnostic_command.
	DiagnosticDenylist []string `yaml:"diagnostic_denylist"`
	// StopWords is the common-words stoplist used by the root-cause heuristic.
	StopWords []string `yaml:"stop_words"`
	// SearchCacheTTLSeconds is the TTL for the search_results cache.
	SearchCacheTTLSeconds int `yaml:"search_cache_ttl_seconds"`
	// LexicalWeight / VectorWeight are the default hybrid-retrieval fusion weights.
	LexicalWeight float64 `yaml:"lexical_weight"`
	VectorWeight  float64 `yaml:"vector_weight"`
	// FocusRecentActions caps recent_actions in focus mode.
	FocusRecentActions int `yaml:"focus_recent_actions"`
	// FocusTailSteps is how many trailing session_history steps stay in focus mode.
	FocusTailSteps int `yaml:"focus_tail_steps"`
	// FocusMinSteps is the floor on retained session_history steps in focus mode.
	FocusMinSteps int `yaml:"focus_min_steps"`
	// DriftTailSteps is how many trailing session_history steps survive drift collapse.
	DriftTailSteps int `yaml:"drift_tail_steps"`
	// DriftThreshold is the session_history length above which drift mode collapses.
	DriftThreshold int `yaml:"drift_threshold"`
}

// ToAgentTuning adapts this config's fields to agent.TuningConfig, the
// shape the context optimizer actually consumes.
func (c TuningConfig) ToAgentTuning() agent.TuningConfig {
	return agent.TuningConfig{
		FileTruncateChars:       c.FileTruncateChars,
		FileTruncateKeep:        c.FileTruncateKeep,
		NotesMaxCount:           c.NotesConsolidateThreshold,
		NotesMaxChars:           c.NotesMaxChars,
		MaxErrorProgression:     c.MaxErrorProgression,
		FocusRecentActions:      c.FocusRecentActions,
		FocusTailSteps:          c.FocusTailSteps,
		FocusMinSteps:           c.FocusMinSteps,
		DriftTailSteps:          c.DriftTailSteps,
		DriftThreshold:          c.DriftThreshold,
		ContextTokenBudget:      c.ContextTokenBudget,
		MaxRecentActions:        c.MaxRecentActions,
		DedupWindowSteps:        c.DedupWindowSteps,
		ConsecutiveFailureLimit: c.ConsecutiveFailureLimit,
		SearchTTL:               time.Duration(c.SearchCacheTTLSeconds) * time.Second,
		StepDelay:               time.Duration(c.StepDelayMillis) * time.Millisecond,
		Denylist:                c.DiagnosticDenylist,
		StopWords:               c.StopWords,
		LexicalWeight:           c.LexicalWeight,
		VectorWeight:            c.VectorWeight,
	}
}

// DefaultTuning returns the spec's documented defaults.
func DefaultTuning() TuningConfig {
	return TuningConfig{
		MaxSessionSteps:           20,
		ContextTokenBudget:        8000,
		FileTruncateChars:         2000,
		FileTruncateKeep:          1000,
		NotesConsolidateThreshold: 3,
		NotesMaxChars:             1500,
		MaxRecentActions:          10,
		MaxErrorProgression:       10,
		DedupWindowSteps:          3,
		ConsecutiveFailureLimit:   3,
		StepDelayMillis:           500,
		DiagnosticDenylist: []string{
			"rm", "del", "format", "mkfs", "dd", "mv", "cp", ">", ">>", "sudo",
		},
		StopWords: []string{
			"the", "and", "for", "with", "that", "this", "from", "have", "has",
			"not", "are", "was", "were", "been", "error", "errors", "line",
			"file", "none",
		},
		SearchCacheTTLSeconds: 300,
		LexicalWeight:         0.3,
		VectorWeight:          0.7,
		FocusRecentActions:    5,
		FocusTailSteps:        5,
		FocusMinSteps:         3,
		DriftTailSteps:        3,
		DriftThreshold:        5,
	}
}

// LoadTuning reads an optional YAML tuning file, falling back to defaults
// for anything unset. Missing files are not an error.
func LoadTuning(path string) (TuningConfig, error) {
	cfg := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}

	// Decode onto the defaults so a partial file only overrides what it sets.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
