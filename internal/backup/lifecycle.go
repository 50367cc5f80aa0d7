package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/utils/clock"
)

// State is a lifecycle run state
type State string

const (
	StateIdle     State = "Idle"
	StateCreating State = "Creating"
	StateSharing  State = "Sharing"
	StateDeleting State = "Deleting"
	StateDone     State = "Done"
	StateFailed   State = "Failed"
)

// Event drives a transition between states
type Event string

const (
	EventStart     Event = "start"
	EventSucceeded Event = "succeeded"
	EventFailed    Event = "failed"
)

// transitions is the complete lifecycle transition table
var transitions = map[State]map[Event]State{
	StateIdle:     {EventStart: StateCreating},
	StateCreating: {EventSucceeded: StateSharing, EventFailed: StateFailed},
	StateSharing:  {EventSucceeded: StateDeleting, EventFailed: StateFailed},
	StateDeleting: {EventSucceeded: StateDone, EventFailed: StateFailed},
}

// NextState returns the state reached from `from` on event ev
func NextState(from State, ev Event) (State, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return from, fmt.Errorf("no transition from %s on %s", from, ev)
	}
	return to, nil
}

// Terminal reports whether no further transitions leave s
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Transition records one state change of a run
type Transition struct {
	From  State     `json:"from"`
	To    State     `json:"to"`
	Event Event     `json:"event"`
	At    time.Time `json:"at"`
}

// RunResult describes a finished lifecycle run
type RunResult struct {
	Table       string         `json:"table"`
	State       State          `json:"state"`
	Backup      Backup         `json:"backup"`
	Exports     []ExportResult `json:"exports,omitempty"`
	Deletion    DeleteResult   `json:"deletion"`
	Transitions []Transition   `json:"transitions"`
	StartedAt   time.Time      `json:"startedAt"`
	FinishedAt  time.Time      `json:"finishedAt"`
	Error       string         `json:"error,omitempty"`
}

// Orchestrator runs create, share and delete in sequence. The created backup
// is the only data passed between stages; any stage error ends the run in
// StateFailed without running later stages.
type Orchestrator struct {
	table        string
	creator      Creator
	sharer       Sharer
	pruner       Pruner
	stageTimeout time.Duration
	clock        clock.PassiveClock
	logger       *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given stages
func NewOrchestrator(table string, creator Creator, sharer Sharer, pruner Pruner, stageTimeout time.Duration, clk clock.PassiveClock, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		table:        table,
		creator:      creator,
		sharer:       sharer,
		pruner:       pruner,
		stageTimeout: stageTimeout,
		clock:        clk,
		logger:       logger,
	}
}

// NewLifecycle wires the three service-backed stages for cfg
func NewLifecycle(service TableService, cfg Config, clk clock.PassiveClock, logger *slog.Logger) *Orchestrator {
	cfg = cfg.WithDefaults()
	return NewOrchestrator(
		cfg.TableName,
		NewCreateStage(service, cfg.TableName, clk, logger.With("stage", stageCreate)),
		NewShareStage(service, cfg, logger.With("stage", stageShare)),
		NewDeleteStage(service, cfg.TableName, RetentionPolicy{TTLDays: cfg.TTLDays}, clk, logger.With("stage", stageDelete)),
		cfg.StageTimeout,
		clk,
		logger,
	)
}

// Run executes one lifecycle run. The returned result is always non-nil; the
// error is the fatal stage error, if any.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		Table:     o.table,
		State:     StateIdle,
		StartedAt: o.clock.Now(),
	}

	o.logger.Info("Starting backup lifecycle run", "table", o.table)

	var fatal error
	o.fire(result, EventStart)
	for !result.State.Terminal() {
		stage := result.State
		if err := o.runStage(ctx, stage, result); err != nil {
			fatal = err
			result.Error = err.Error()
			o.logger.Error("Lifecycle stage failed", "stage", stage, "table", o.table, "error", err)
			o.fire(result, EventFailed)
			continue
		}
		o.fire(result, EventSucceeded)
	}

	result.FinishedAt = o.clock.Now()
	runsTotal.WithLabelValues(o.table, string(result.State)).Inc()
	runDuration.WithLabelValues(o.table).Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())

	o.logger.Info("Backup lifecycle run finished",
		"table", o.table,
		"state", result.State,
		"backup_name", result.Backup.Name,
		"exports", len(result.Exports),
		"deleted", len(result.Deletion.Deleted),
		"delete_failures", len(result.Deletion.Failed),
	)
	return result, fatal
}

func (o *Orchestrator) runStage(ctx context.Context, stage State, result *RunResult) error {
	stageCtx := ctx
	if o.stageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, o.stageTimeout)
		defer cancel()
	}

	switch stage {
	case StateCreating:
		created, err := o.creator.Create(stageCtx)
		if err != nil {
			return err
		}
		result.Backup = created
		return nil
	case StateSharing:
		exports, err := o.sharer.Share(stageCtx, result.Backup)
		result.Exports = exports
		return err
	case StateDeleting:
		deletion, err := o.pruner.Prune(stageCtx)
		result.Deletion = deletion
		return err
	default:
		return fmt.Errorf("state %s has no stage", stage)
	}
}

func (o *Orchestrator) fire(result *RunResult, ev Event) {
	to, err := NextState(result.State, ev)
	if err != nil {
		// only reachable through a broken transition table
		panic(err)
	}
	result.Transitions = append(result.Transitions, Transition{
		From:  result.State,
		To:    to,
		Event: ev,
		At:    o.clock.Now(),
	})
	result.State = to
}
