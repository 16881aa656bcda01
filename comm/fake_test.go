package comm

import (
	"errors"
	"sync"
)

var (
	errUnplugged = errors.New("device unplugged")
	errNoDevice  = errors.New("no such file or directory")
)

// fakeBus stands in for the serial device. It records every frame that
// reached the device and fails opens and writes on request.
type fakeBus struct {
	mu         sync.Mutex
	failOpens  int
	failWrites int
	shortWrite bool
	opens      int
	closes     int
	frames     [][]byte
	lastBaud   int
}

func (b *fakeBus) Open(path string, baud int) (Port, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastBaud = baud
	if b.failOpens > 0 {
		b.failOpens--
		return nil, errNoDevice
	}
	b.opens++
	return &fakePort{bus: b}, nil
}

func (b *fakeBus) written() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.frames...)
}

func (b *fakeBus) last() []byte {
	frames := b.written()
	if len(frames) == 0 {
		return nil
	}
	return frames[len(frames)-1]
}

type fakePort struct {
	bus    *fakeBus
	closed bool
}

func (p *fakePort) Write(data []byte) (int, error) {
	b := p.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.closed {
		return 0, errors.New("write on closed port")
	}
	if b.failWrites > 0 {
		b.failWrites--
		return 0, errUnplugged
	}
	if b.shortWrite {
		b.shortWrite = false
		return len(data) / 2, nil
	}
	if err := VerifyFrame(data); err != nil {
		return 0, err
	}
	b.frames = append(b.frames, append([]byte(nil), data...))
	return len(data), nil
}

func (p *fakePort) Close() error {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()
	p.closed = true
	p.bus.closes++
	return nil
}
