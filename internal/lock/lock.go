// Package lock keeps a second cactolog process away from a database that is
// already open. The lockfile holds "pid|executable" of its owner; a lockfile
// whose process is gone is treated as stale and replaced.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrLocked is returned when another live process holds the lock.
var ErrLocked = errors.New("database is in use by another cactolog process")

// HeldError describes the process that owns the lock.
type HeldError struct {
	Path       string
	PID        int
	Executable string
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("%v (pid %d, %s, lockfile %s)", ErrLocked, e.PID, e.Executable, e.Path)
}

func (e *HeldError) Unwrap() error {
	return ErrLocked
}

// Lock is a held lockfile.
type Lock struct {
	path    string
	content string
}

// Acquire creates the lockfile at path, replacing it when its owner is no
// longer running.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	content := fmt.Sprintf("%d|%s", getpidFunc(), executableName())
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, content: content}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		if held := checkOwner(path); held != nil {
			return nil, held
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to acquire lockfile %s", path)
}

// checkOwner returns a HeldError when the lockfile names a live process other
// than this one, and nil when the lock is stale.
func checkOwner(path string) *HeldError {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 2)
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 || pid == getpidFunc() {
		return nil
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return nil
	}
	return &HeldError{Path: path, PID: pid, Executable: process.Executable()}
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	if string(data) != l.content {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func (l *Lock) Path() string {
	return l.path
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return "cactolog"
	}
	return filepath.Base(exe)
}
