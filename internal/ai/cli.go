package ai

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow/internal/debug"
	"github.com/taskflow-ai/taskflow/internal/types"
)

// CLIProvider runs a local text-generation command (e.g. the gemini CLI)
// as a subprocess. It exists so taskflow works without any hosted API:
// the command receives the prompt as its final --prompt argument and must
// print the response on stdout.
type CLIProvider struct {
	command string
	args    []string
	timeout time.Duration
}

// NewCLIProvider builds the subprocess provider. args are the leading
// arguments placed before --prompt (for example ["generate", "--model",
// "gemini-pro"]).
func NewCLIProvider(command string, args []string, timeout time.Duration) *CLIProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CLIProvider{command: command, args: args, timeout: timeout}
}

// Name implements Provider.
func (p *CLIProvider) Name() string { return "cli:" + p.command }

// Generate implements Provider.
func (p *CLIProvider) Generate(ctx context.Context, prompt string, extra any) (string, error) {
	full, err := withContext(prompt, extra)
	if err != nil {
		return "", &types.ProviderError{Provider: p.Name(), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := append(append([]string{}, p.args...), "--prompt", full)
	cmd := exec.CommandContext(ctx, p.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	debug.Logf("running provider subprocess: %s %s", p.command, strings.Join(p.args, " "))

	if err := cmd.Run(); err != nil {
		transient := ctx.Err() == context.DeadlineExceeded
		return "", &types.ProviderError{
			Provider:  p.Name(),
			Err:       fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())),
			Transient: transient,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}
