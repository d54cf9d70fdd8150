package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/goistanbul/internal/domain"
	domainmocks "github.com/mouse-blink/goistanbul/internal/domain/mocks"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

// withMockWorkflow swaps the package workflow for a mock for the test's duration.
func withMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

func TestRunCmd_Defaults(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return len(args.Paths) == 1 &&
			args.Paths[0] == m.Path("./...") &&
			args.OutputDir == m.Path(".goistanbul_output") &&
			args.Threads >= 1 &&
			len(args.TestArgs) == 0 &&
			!args.KeepTemp &&
			len(args.Report.Reporters) == 1 && args.Report.Reporters[0] == "text" &&
			args.Report.ReportDir == m.Path("coverage")
	})).Return(nil)

	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_FlagsAndTestArgs(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return len(args.Paths) == 2 &&
			args.Paths[0] == m.Path("./cmd") &&
			args.Paths[1] == m.Path("./pkg/...") &&
			args.Threads == 3 &&
			args.OutputDir == m.Path("out") &&
			args.TempDir == "tmp" &&
			args.KeepTemp &&
			len(args.Exclude) == 2 && args.Exclude[0] == "^generated_" && args.Exclude[1] == "_gen\\.go$" &&
			args.Report.Thresholds.Statements == 80 &&
			args.Report.Thresholds.Branches == 0 &&
			len(args.Report.Reporters) == 2 &&
			len(args.TestArgs) == 2 && args.TestArgs[0] == "-run" && args.TestArgs[1] == "TestX"
	})).Return(nil)

	cmd.SetArgs([]string{
		"run", "-p", "3", "--output-dir", "out", "--temp-dir", "tmp", "--keep-temp",
		"-x", "^generated_", "-x", "_gen\\.go$", "--statements", "80",
		"-r", "lcov", "-r", "text-summary",
		"./cmd", "./pkg/...", "--", "-run", "TestX",
	})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_PropagatesFailure(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.EXPECT().Run(mock.Anything, mock.Anything).Return(domain.ErrTestsFailed)

	cmd.SetArgs([]string{"run"})
	require.ErrorIs(t, cmd.Execute(), domain.ErrTestsFailed)
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run [paths...] [-- go test args]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, runLongDescription, cmd.Long)
	assert.Contains(t, cmd.Long, "--runtime-replace")
	assert.Contains(t, cmd.Flags().Lookup("runtime-replace").Usage, "GOPROXY")

	for _, name := range []string{
		"parallel", "include", "exclude", "reporters", "report-dir",
		"statements", "branches", "functions", "lines",
		"output-dir", "temp-dir", "runtime-replace", "keep-temp",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}
