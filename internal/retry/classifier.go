package retry

import (
	"errors"
	"os"
	"strings"
	"syscall"
)

// rsync exit codes that mean the transfer was interrupted rather than refused.
// See rsync(1), EXIT VALUES.
const (
	rsyncSocketIO        = 10
	rsyncFileIO          = 11
	rsyncProtocolStream  = 12
	rsyncPartialTransfer = 23
	rsyncVanishedSource  = 24
	rsyncTimeout         = 30
	rsyncConnectTimeout  = 35
)

// exitCoder is implemented by *exec.ExitError and copier.ProcessError.
type exitCoder interface {
	ExitCode() int
}

// CopyErrorClassifier implements imdix.ErrorClassifier for file copies.
type CopyErrorClassifier struct {
	codes map[int]bool
}

// NewCopyErrorClassifier creates a classifier that retries the rsync exit
// codes for interrupted transfers.
func NewCopyErrorClassifier() *CopyErrorClassifier {
	return &CopyErrorClassifier{codes: map[int]bool{
		rsyncSocketIO:        true,
		rsyncFileIO:          true,
		rsyncProtocolStream:  true,
		rsyncPartialTransfer: true,
		rsyncVanishedSource:  true,
		rsyncTimeout:         true,
		rsyncConnectTimeout:  true,
	}}
}

// IsTransient reports whether a copy failure may succeed on another attempt.
func (c *CopyErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return false
	}

	var ec exitCoder
	if errors.As(err, &ec) {
		return c.codes[ec.ExitCode()]
	}

	if c.isTransientErrno(err) {
		return true
	}
	return c.isTransientMessage(err)
}

func (c *CopyErrorClassifier) isTransientErrno(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case syscall.EAGAIN, syscall.EBUSY, syscall.EINTR, syscall.ETIMEDOUT, syscall.EIO:
		return true
	}
	return false
}

// isTransientMessage catches errors that lost their errno on the way, such
// as those reported by an external tool on stderr.
func (c *CopyErrorClassifier) isTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"resource temporarily unavailable",
		"device or resource busy",
		"stale file handle",
		"connection reset",
		"input/output error",
		"timed out",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
