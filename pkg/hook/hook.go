// Package hook runs the operator-configured shell commands that bracket a
// compression pass, e.g. purging a CDN cache or reloading the webserver
// after fresh .gz files are in place.
package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/paulschiretz/pgl-gzstatic/pkg/hints"
	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
)

var ErrNothingToExecute = hints.New("nothing to execute")
var ErrDisabled = hints.New("hook execution is disabled")

type HookExecutor struct {
	// commandContext allows mocking os/exec for testing hooks.
	commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewHookExecutor creates a new HookExecutor.
func NewHookExecutor(commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd) *HookExecutor {
	return &HookExecutor{
		commandContext: commandContext,
	}
}

// RunPreHooks executes the pre-phase commands. Any failure is returned to
// the caller, which treats it as fatal: a failed preparation step must not
// be followed by a compression pass.
func (e *HookExecutor) RunPreHooks(ctx context.Context, phase string, p *Plan) error {
	return e.run(ctx, "Pre-"+phase, p, p.PreHookCommands, true)
}

// RunPostHooks executes the post-phase commands. Failures are logged as
// warnings; the pass itself already completed.
func (e *HookExecutor) RunPostHooks(ctx context.Context, phase string, p *Plan) error {
	return e.run(ctx, "Post-"+phase, p, p.PostHookCommands, false)
}

func (e *HookExecutor) run(ctx context.Context, name string, p *Plan, commands []string, failFast bool) error {
	if !p.Enabled {
		return ErrDisabled
	}
	if len(commands) == 0 {
		return ErrNothingToExecute
	}

	plog.Info(fmt.Sprintf("Running %s hook commands", name))

	for _, hookCommand := range commands {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p.DryRun {
			plog.Info("[DRY RUN] Executing command", "command", hookCommand)
			continue
		}
		plog.Info("Executing command", "command", hookCommand)

		cmd := e.createCommand(ctx, hookCommand)

		// Pipe output to our streams for visibility
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			// Check if the context was canceled, which can cause cmd.Wait()
			// to return an error. If so, return the context's error to be
			// more specific.
			if ctx.Err() == context.Canceled {
				return context.Canceled
			}
			if failFast {
				return fmt.Errorf("command '%s' failed: %w", hookCommand, err)
			}
			plog.Warn("Hook command failed", "command", hookCommand, "error", err)
		}
	}
	return nil
}
