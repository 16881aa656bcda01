package comm

import (
	"errors"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

const DefaultBaud = 19200

var (
	ErrOpenFailure  = errors.New("open failed")
	ErrWriteFailure = errors.New("write failed")
	ErrShortWrite   = errors.New("short write")
)

// Port is an open connection to the light. A Port that returned a write
// error is never written to again.
type Port interface {
	io.WriteCloser
}

type Opener interface {
	Open(path string, baud int) (Port, error)
}

// SerialOpener opens real serial devices.
type SerialOpener struct{}

func (SerialOpener) Open(path string, baud int) (Port, error) {
	port, err := serial.OpenPort(&serial.Config{Name: path, Baud: baud})
	if err != nil {
		return nil, err
	}
	return port, nil
}

type OpenError struct {
	Path   string
	Reason string
	Err    error
}

func (e *OpenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("open %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() []error { return []error{ErrOpenFailure, e.Err} }

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrWriteFailure, e.Err} }

func openPort(opener Opener, path string, baud int) (Port, error) {
	port, err := opener.Open(path, baud)
	if err != nil {
		return nil, &OpenError{Path: path, Reason: diagnoseOpen(path), Err: err}
	}
	return port, nil
}

func writeFrame(port Port, path string, frame []byte) error {
	n, err := port.Write(frame)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if n != len(frame) {
		return &WriteError{Path: path, Err: fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(frame))}
	}
	return nil
}
