package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// staleLockAge is how long a lock file can go unclaimed by a live process
// before a new Store is allowed to reclaim it.
const staleLockAge = 10 * time.Second

// fileLock is a single-writer advisory lock backed by a PID file next to
// the database. There is no third-party file-locking primitive in the
// teacher's or pack's dependency set that fits a single cross-platform
// lock-and-reclaim use case this small, so it stays on the standard
// library: os.OpenFile with O_EXCL for the acquire race, combined with a
// liveness check (signal 0) for stale-lock reclamation.
type fileLock struct {
	path string
}

func newFileLock(dbPath string) *fileLock {
	return &fileLock{path: dbPath + ".lock"}
}

// Acquire creates the lock file, reclaiming it first if it is stale: either
// older than staleLockAge, or naming a pid that's no longer alive.
func (l *fileLock) Acquire() error {
	if err := l.tryCreate(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("create lock: %w", err)
	}

	if l.isStale() {
		_ = os.Remove(l.path)
		if err := l.tryCreate(); err != nil {
			return fmt.Errorf("reclaim lock: %w", err)
		}
		return nil
	}

	return fmt.Errorf("store is locked by another process (%s)", l.path)
}

func (l *fileLock) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%d\n%d\n", os.Getpid(), time.Now().Unix())
	return err
}

func (l *fileLock) isStale() bool {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return true
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return true
	}
	pid, err := strconv.Atoi(lines[0])
	if err != nil || !processAlive(pid) {
		return true
	}
	ts, err := strconv.ParseInt(lines[1], 10, 64)
	if err != nil {
		return true
	}
	return time.Since(time.Unix(ts, 0)) > staleLockAge
}

// processAlive reports whether pid names a running process. On POSIX,
// signal 0 performs only existence/permission checks with no actual
// delivery.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// Release removes the lock file.
func (l *fileLock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
