package agent

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SessionMeta holds the listing metadata for a saved session, per spec §6's
// persisted session log shape.
type SessionMeta struct {
	ID         string    `json:"id"`
	UUID       string    `json:"uuid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Preview    string    `json:"preview"`
	StepsTaken int       `json:"steps_taken"`
}

// SessionLog is the on-disk representation of one agentic debugging session.
type SessionLog struct {
	Meta            SessionMeta    `json:"meta"`
	SessionType     string         `json:"session_type"`
	InitialCommand  CommandRun     `json:"initial_command"`
	UserContext     string         `json:"user_context"`
	FinalContext    *AgentContext  `json:"final_context"`
	StepsTaken      int            `json:"steps_taken"`
	TerminalStatus  TerminalStatus `json:"terminal_status,omitempty"`
	Conclusion      string         `json:"conclusion,omitempty"`
}

// NewSessionID produces a human-sortable, collision-resistant ID: a
// timestamp prefix (for ListSessions' directory ordering without having to
// parse every file) followed by random hex.
func NewSessionID() string {
	return generateSessionID()
}

// generateSessionID is the unexported implementation NewSessionID wraps,
// kept distinct so existing tests can call it without the package prefix.
func generateSessionID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return time.Now().Format("20060102-150405") + "-" + hex.EncodeToString(b)
}

func sessionsDir(workDir string) (string, error) {
	return globalSessionsDir(workDir)
}

// SaveSession persists ctx and its terminal outcome to the project's global
// sessions directory, atomically, as a single structured document per
// spec §6.
func SaveSession(workDir, sessionID string, created time.Time, ctx *AgentContext, outcome Outcome) error {
	dir, err := sessionsDir(workDir)
	if err != nil {
		return fmt.Errorf("resolve sessions dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}

	preview := ctx.InitialUserRequest
	if len(preview) > 100 {
		preview = preview[:100]
	}

	log := SessionLog{
		Meta: SessionMeta{
			ID:         sessionID,
			UUID:       uuid.NewString(),
			CreatedAt:  created,
			UpdatedAt:  time.Now(),
			Preview:    preview,
			StepsTaken: outcome.StepsTaken,
		},
		SessionType:    "agentic",
		InitialCommand: ctx.InitialCommandRun,
		UserContext:    ctx.InitialUserRequest,
		FinalContext:   ctx,
		StepsTaken:     outcome.StepsTaken,
		TerminalStatus: outcome.Status,
		Conclusion:     outcome.ConclusionMessage,
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	path := filepath.Join(dir, sessionID+".json")
	return atomicWriteSession(path, data)
}

func atomicWriteSession(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// ResumeSession loads a saved session log by ID.
func ResumeSession(workDir, sessionID string) (*SessionLog, error) {
	dir, err := sessionsDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve sessions dir: %w", err)
	}
	path := filepath.Join(dir, sessionID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var log SessionLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &log, nil
}

// ListSessions reads all session files from the sessions directory,
// returning up to max entries sorted by UpdatedAt descending.
func ListSessions(workDir string, max int) ([]SessionMeta, error) {
	dir, err := sessionsDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve sessions dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var metas []SessionMeta
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		var log SessionLog
		if err := json.Unmarshal(data, &log); err != nil {
			continue
		}
		metas = append(metas, log.Meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	if max > 0 && len(metas) > max {
		metas = metas[:max]
	}
	return metas, nil
}
