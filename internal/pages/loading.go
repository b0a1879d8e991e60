package pages

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	flowlog "github.com/jask/setupflow/internal/log"
	"github.com/jask/setupflow/internal/setupflow"
)

type (
	// Outcome is how a single task ended.
	Outcome struct {
		Task string
		Err  error
	}

	// Result collects the outcomes of one loading run.
	Result struct {
		Outcomes []Outcome
	}

	// Loading runs the tasks contributed by the flow's groups. The shell
	// calls Begin on the UI goroutine, Execute elsewhere, then Complete back
	// on the UI goroutine; Complete is what raises the finished event.
	Loading struct {
		title  string
		groups []setupflow.TaskGroup
		logger *slog.Logger

		mu     sync.Mutex
		state  loadingState
		tasks  []Task
		result Result

		finished setupflow.Signal
	}

	loadingState int
)

const (
	loadingIdle loadingState = iota
	loadingRunning
	loadingDone
)

func (r Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

func (r Result) Succeeded() int {
	return len(r.Outcomes) - r.Failed()
}

func (p *Loading) Kind() setupflow.PageKind { return setupflow.KindLoading }
func (p *Loading) Title() string            { return p.title }

func (p *Loading) OnExecutionFinished(fn func()) setupflow.Subscription {
	return setupflow.OnSignal(&p.finished, fn)
}

// Begin snapshots the groups' tasks and marks the page running. It
// reports false if the page already started.
func (p *Loading) Begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != loadingIdle {
		return false
	}
	p.state = loadingRunning
	p.tasks = nil
	for _, g := range p.groups {
		if src, ok := g.(TaskSource); ok {
			p.tasks = append(p.tasks, src.Tasks()...)
		}
	}
	return true
}

// Execute runs the tasks snapshot by Begin in order. A cancelled context
// marks the remaining tasks as failed without running them.
func (p *Loading) Execute(ctx context.Context) Result {
	p.mu.Lock()
	tasks := p.tasks
	p.mu.Unlock()

	res := Result{Outcomes: make([]Outcome, 0, len(tasks))}
	for _, t := range tasks {
		err := ctx.Err()
		if err == nil {
			err = t.Execute(ctx)
		}
		if err != nil {
			p.logger.Warn("Setup task failed",
				slog.String("task", t.Description()),
				flowlog.Error(err))
		}
		res.Outcomes = append(res.Outcomes, Outcome{Task: t.Description(), Err: err})
	}
	return res
}

// Complete stores the result and raises the finished event. Only the first
// call has any effect.
func (p *Loading) Complete(r Result) {
	p.mu.Lock()
	if p.state == loadingDone {
		p.mu.Unlock()
		return
	}
	p.state = loadingDone
	p.result = r
	p.mu.Unlock()

	p.logger.Info("Setup tasks finished",
		slog.Int("succeeded", r.Succeeded()),
		slog.Int("failed", r.Failed()))
	setupflow.Fire(&p.finished)
}

func (p *Loading) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == loadingDone
}

func (p *Loading) Result() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

func (p *Loading) Render() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	switch p.state {
	case loadingIdle:
		b.WriteString(mutedStyle.Render("Waiting to start"))
	case loadingRunning:
		b.WriteString(fmt.Sprintf("Running %d task(s)...\n", len(p.tasks)))
		for _, t := range p.tasks {
			b.WriteString("  - " + t.Description() + "\n")
		}
	default:
		b.WriteString(fmt.Sprintf("Finished: %d succeeded, %d failed",
			p.result.Succeeded(), p.result.Failed()))
	}
	return b.String()
}
