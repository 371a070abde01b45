// Command aidebug runs a shell command and, if it fails, drives an
// iterative diagnose-and-fix loop against it: an LLM planner proposes one
// tool call at a time against a bounded working-memory context until the
// error is resolved, the user is given guidance, or the session exhausts
// its step budget.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kaiho/aidebug/agent"
	"github.com/kaiho/aidebug/config"
	"github.com/kaiho/aidebug/llm"
	"github.com/kaiho/aidebug/tools"
	"github.com/kaiho/aidebug/ui"
)

func main() {
	provider := flag.String("provider", "", "Planner provider: openai or anthropic (default: openai)")
	model := flag.String("model", "", "Model name override")
	debug := flag.Bool("debug", false, "Enable debug logging")
	tuningPath := flag.String("tuning", ".aidebug.yaml", "Path to an optional tuning config file")
	timeout := flag.Duration("timeout", 2*time.Minute, "Timeout for the initial command (diagnostic steps use a fixed 10s timeout)")
	listSessions := flag.Bool("sessions", false, "List recent debugging sessions for this directory and exit")
	flag.Parse()

	if *listSessions {
		runListSessions()
		return
	}

	command := strings.Join(flag.Args(), " ")
	if command == "" {
		fmt.Fprintln(os.Stderr, "usage: aidebug [flags] <command to run>")
		os.Exit(2)
	}

	log := config.NewLogger(*debug)

	cfg, err := config.Load(*provider)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if *model != "" {
		cfg.Model = *model
	}

	planner, err := llm.New(cfg.Provider, cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.BaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %s\n", err)
		os.Exit(1)
	}

	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tuning config: %s\n", err)
		os.Exit(1)
	}

	term := ui.NewTerminal()
	term.PrintBanner(cfg.Model, workDir, "")

	rootCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	subprocess := tools.ShellSubprocess{}
	result, err := subprocess.Run(rootCtx, workDir, command, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running command: %s\n", err)
		os.Exit(1)
	}

	if result.ExitCode == 0 {
		fmt.Println(result.Output)
		term.DisplayBlock("Command succeeded", "Nothing to debug.")
		return
	}

	fmt.Println(result.Output)
	term.DisplayBlock("Command failed", fmt.Sprintf("exit code %d — starting a debugging session.", result.ExitCode))

	registry := tools.NewRegistry(workDir, &subprocess, term)

	cmdRun := agent.CommandRun{
		CommandString: command,
		Stdout:        result.Output,
		ExitCode:      result.ExitCode,
	}

	ctx := agent.NewAgentContext(command, cmdRun, workDir, registry.Descriptors())
	ctx.Constraints.MaxSessionSteps = tuning.MaxSessionSteps

	agentTuning := tuning.ToAgentTuning()

	created := time.Now()
	if err := agent.Seed(ctx, created, agentTuning); err != nil {
		log.Warn().Err(err).Msg("seeding failed, continuing with an empty knowledge base")
	}

	orch := agent.NewOrchestrator(ctx, planner, registry, agentTuning, log)
	orch.SetStepObserver(func(s agent.Step) {
		term.PrintStep(s.StepNo, s.Thought, s.ActionTaken.Tool)
		term.PrintToolResult(s.Result.Status, s.Result.Message)
	})
	outcome := orch.Run(rootCtx)

	term.DisplayBlock(fmt.Sprintf("Session ended: %s", outcome.Status), outcome.ConclusionMessage)

	sessionID := agent.NewSessionID()
	if err := agent.SaveSession(workDir, sessionID, created, ctx, outcome); err != nil {
		term.PrintWarning(fmt.Sprintf("Session save failed: %s", err))
	}

	if outcome.Status != agent.Resolved && outcome.Status != agent.GuidanceProvided {
		os.Exit(1)
	}
}

func runListSessions() {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %s\n", err)
		os.Exit(1)
	}

	metas, err := agent.ListSessions(workDir, 20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing sessions: %s\n", err)
		os.Exit(1)
	}

	items := make([]ui.SessionListItem, len(metas))
	for i, m := range metas {
		items[i] = ui.SessionListItem{ID: m.ID, Updated: m.UpdatedAt, Preview: m.Preview, StepsTaken: m.StepsTaken}
	}

	term := ui.NewTerminal()
	term.PrintSessionList(items)
}
