package figure

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ExecRunner implements Runner using os/exec. The context kills the
// process on cancellation or deadline.
type ExecRunner struct{}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			err = fmt.Errorf("exit status %d", exitErr.ExitCode())
		}
	}
	return stdout.String(), stderr.String(), err
}
