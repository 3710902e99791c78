package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

// lockedBuffer is a thread-safe bytes.Buffer for capturing process output
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer with mutex protection
func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

// String returns the buffer contents with mutex protection
func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// Runner manages a logscope process for e2e tests
type Runner struct {
	t       *testing.T
	bin     string
	cmd     *exec.Cmd
	stdout  *lockedBuffer
	stderr  *lockedBuffer
	workDir string
}

// NewRunner creates a runner working in a fresh log folder. The test is
// skipped when no logscope binary can be found
func NewRunner(t *testing.T) *Runner {
	t.Helper()

	bin := os.Getenv("LOGSCOPE_BIN")
	if bin == "" {
		bin = "logscope"
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		t.Skipf("logscope binary not available: %v", err)
	}

	return &Runner{
		t:       t,
		bin:     path,
		workDir: t.TempDir(),
		stdout:  &lockedBuffer{},
		stderr:  &lockedBuffer{},
	}
}

// Dir returns the watched log folder
func (r *Runner) Dir() string {
	return r.workDir
}

// Start launches logscope in the background
func (r *Runner) Start(args ...string) error {
	r.cmd = exec.Command(r.bin, args...)
	r.cmd.Dir = r.workDir
	r.cmd.Stdout = r.stdout
	r.cmd.Stderr = r.stderr

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start logscope: %w", err)
	}

	return nil
}

// Run executes logscope to completion and returns its exit code
func (r *Runner) Run(args ...string) (int, error) {
	if err := r.Start(args...); err != nil {
		return -1, err
	}

	done := make(chan error, 1)

	go func() {
		done <- r.cmd.Wait()
	}()

	select {
	case <-done:
		return r.ExitCode(), nil
	case <-time.After(10 * time.Second):
		r.cmd.Process.Kill()
		<-done

		return -1, fmt.Errorf("logscope did not finish, killed\nOutput:\n%s", r.Output())
	}
}

// Signal delivers sig to the running logscope process
func (r *Runner) Signal(sig os.Signal) error {
	if r.cmd == nil || r.cmd.Process == nil {
		return fmt.Errorf("logscope is not running")
	}

	return r.cmd.Process.Signal(sig)
}

// Stop sends SIGTERM and waits for graceful shutdown
func (r *Runner) Stop() error {
	if r.cmd == nil || r.cmd.Process == nil || r.cmd.ProcessState != nil {
		return nil
	}

	if err := r.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	done := make(chan error, 1)

	go func() {
		done <- r.cmd.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-time.After(10 * time.Second):
		r.cmd.Process.Kill()
		<-done

		return fmt.Errorf("process did not exit gracefully, killed")
	}
}

// WaitForOutput blocks until pattern appears in stdout or timeout
func (r *Runner) WaitForOutput(pattern string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for output %q\nOutput:\n%s\nStderr:\n%s", pattern, r.Output(), r.Stderr())
		case <-ticker.C:
			if strings.Contains(r.Output(), pattern) {
				return nil
			}
		}
	}
}

// Append writes records as JSON lines to name inside the log folder
func (r *Runner) Append(name string, records ...map[string]any) error {
	f, err := os.OpenFile(filepath.Join(r.workDir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return err
		}

		if _, err := f.Write(append(line, '\n')); err != nil {
			return err
		}
	}

	return nil
}

// Output returns current stdout content
func (r *Runner) Output() string {
	return r.stdout.String()
}

// Stderr returns current stderr content
func (r *Runner) Stderr() string {
	return r.stderr.String()
}

// ExitCode returns process exit code (after Stop)
func (r *Runner) ExitCode() int {
	if r.cmd == nil || r.cmd.ProcessState == nil {
		return -1
	}

	return r.cmd.ProcessState.ExitCode()
}

// record builds a log line in the producer format
func record(id, ts, level, category, message string) map[string]any {
	return map[string]any{
		"id":        id,
		"timestamp": ts,
		"level":     level,
		"category":  category,
		"message":   message,
		"thread":    "main",
	}
}
