package adapter

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// TestRunnerAdapter runs the go tool inside a project directory.
type TestRunnerAdapter interface {
	// RunGoTest runs "go test" with args in dir. env is appended to the
	// current environment. The combined output is returned even when the
	// tests fail.
	RunGoTest(ctx context.Context, dir string, env []string, args ...string) ([]byte, error)
	// GoModEdit runs "go mod edit" with args in dir.
	GoModEdit(ctx context.Context, dir string, args ...string) error
}

// LocalTestRunnerAdapter executes the go binary found on PATH.
type LocalTestRunnerAdapter struct {
	goBin string
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{goBin: "go"}
}

// RunGoTest runs go test and returns its combined output.
func (a *LocalTestRunnerAdapter) RunGoTest(ctx context.Context, dir string, env []string, args ...string) ([]byte, error) {
	out, err := a.run(ctx, dir, env, append([]string{"test"}, args...)...)
	if err != nil {
		return out, errors.Wrapf(err, "go test in %s", dir)
	}

	return out, nil
}

// GoModEdit runs go mod edit.
func (a *LocalTestRunnerAdapter) GoModEdit(ctx context.Context, dir string, args ...string) error {
	out, err := a.run(ctx, dir, nil, append([]string{"mod", "edit"}, args...)...)
	if err != nil {
		return errors.Wrapf(err, "go mod edit in %s: %s", dir, bytes.TrimSpace(out))
	}

	return nil
}

func (a *LocalTestRunnerAdapter) run(ctx context.Context, dir string, env []string, args ...string) ([]byte, error) {
	// #nosec G204 - arguments are assembled by goistanbul, not taken from a shell
	cmd := exec.CommandContext(ctx, a.goBin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	var buf bytes.Buffer

	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()

	return buf.Bytes(), err
}
