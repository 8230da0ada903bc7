// Package pidfile writes a flock-protected pid file so only one
// sockinfo instance runs against a given path at a time.
package pidfile

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofrs/flock"
)

// PidFile pid file
type PidFile struct {
	path string
	lock *flock.Flock
}

// Open locks path and writes the current pid into it.
func Open(path string) (*PidFile, error) {
	f := &PidFile{
		path: path,
		lock: flock.New(path),
	}

	ok, err := f.lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s is locked, another process may be running", path)
	}

	pid := strconv.Itoa(os.Getpid())
	err = os.WriteFile(path, []byte(pid), 0644)
	if err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// Path returns the pid file path.
func (f *PidFile) Path() string {
	return f.path
}

// Close releases the lock and removes the pid file.
func (f *PidFile) Close() {
	if f.lock != nil {
		f.lock.Close()
		f.lock = nil
	}

	os.Remove(f.path)
}
