package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is returned by Acquire while another live process holds the file
var ErrAlreadyRunning = errors.New("daemon is already running")

// PIDFile enforces a single daemon instance
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID. A file left by a dead process, or one that
// does not hold a PID, is replaced.
func (p *PIDFile) Acquire() error {
	if pid, err := p.ReadPID(); err == nil {
		if isProcessRunning(pid) && pid != os.Getpid() {
			return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
		}
		_ = os.Remove(p.path)
	} else if !os.IsNotExist(err) {
		_ = os.Remove(p.path)
	}

	f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w (PID file %s appeared concurrently)", ErrAlreadyRunning, p.path)
		}
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file if this process owns it
func (p *PIDFile) Release() error {
	pid, err := p.ReadPID()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// ReadPID returns the PID stored in the file
func (p *PIDFile) ReadPID() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %s: %w", p.path, err)
	}
	return pid, nil
}

// Running reports whether the process named in the file is alive
func (p *PIDFile) Running() bool {
	pid, err := p.ReadPID()
	return err == nil && isProcessRunning(pid)
}

// KillExisting sends SIGTERM to the recorded process and waits up to 5s for it to exit
func (p *PIDFile) KillExisting() error {
	pid, err := p.ReadPID()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !isProcessRunning(pid) {
		return os.Remove(p.path)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			_ = os.Remove(p.path)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("process %d did not exit after SIGTERM", pid)
}

// isProcessRunning sends signal 0, which only checks the process exists
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM: exists, owned by someone else
	return errors.Is(err, syscall.EPERM)
}
