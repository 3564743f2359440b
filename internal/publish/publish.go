// Package publish commits and pushes generated output. Publishing is best
// effort: it reports success or failure and never returns an error.
package publish

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Publisher attempts to publish the working tree at dir.
type Publisher interface {
	Publish(ctx context.Context, dir, message string) bool
}

// Nop never publishes. It is used for dry runs.
type Nop struct{}

func (Nop) Publish(context.Context, string, string) bool { return false }

// Git stages everything under dir, commits it and optionally pushes.
type Git struct {
	Runner Runner
	Push   bool
	Log    *zap.Logger
}

// NewGit returns a Git publisher backed by the real git binary.
func NewGit(push bool, log *zap.Logger) *Git {
	if log == nil {
		log = zap.NewNop()
	}
	return &Git{Runner: ExecRunner{}, Push: push, Log: log}
}

// Publish runs add, commit and push in order and stops at the first failure.
// "Nothing to commit" is a failure like any other.
func (g *Git) Publish(ctx context.Context, dir, message string) bool {
	steps := [][]string{
		{"add", "-A"},
		{"commit", "-m", message},
	}
	if g.Push {
		steps = append(steps, []string{"push"})
	}
	for _, args := range steps {
		if !g.run(ctx, dir, args) {
			return false
		}
	}
	return true
}

func (g *Git) run(ctx context.Context, dir string, args []string) bool {
	res, err := g.Runner.Run(ctx, dir, "git", args...)
	if err != nil {
		g.Log.Debug("git failed to start", zap.Strings("args", args), zap.Error(err))
		return false
	}
	if res.ExitCode != 0 {
		g.Log.Debug("git exited non-zero",
			zap.Strings("args", args),
			zap.Int("exit_code", res.ExitCode),
			zap.String("output", strings.TrimSpace(res.Stdout+res.Stderr)))
		return false
	}
	return true
}
