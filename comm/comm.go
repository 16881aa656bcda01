package comm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultInterval    = time.Second
	DefaultMailboxSize = 8
)

type connState int

const (
	closed connState = iota
	open
)

func (s connState) String() string {
	if s == open {
		return "open"
	}
	return "closed"
}

// CycleResult describes what one driver cycle did. Frame is nil when the
// device could not be opened and nothing was written.
type CycleResult struct {
	Command Command
	Frame   []byte
	Opened  bool
	Err     error
}

type DriverOption func(*driverOptions)

type driverOptions struct {
	baud        int
	interval    time.Duration
	opener      Opener
	logger      zerolog.Logger
	mailboxSize int
	observer    func(CycleResult)
}

func defaultDriverOptions() driverOptions {
	return driverOptions{
		baud:        DefaultBaud,
		interval:    DefaultInterval,
		opener:      SerialOpener{},
		logger:      zerolog.Nop(),
		mailboxSize: DefaultMailboxSize,
	}
}

func WithBaud(baud int) DriverOption {
	return func(o *driverOptions) {
		o.baud = baud
	}
}

func WithInterval(d time.Duration) DriverOption {
	return func(o *driverOptions) {
		o.interval = d
	}
}

func WithOpener(opener Opener) DriverOption {
	return func(o *driverOptions) {
		o.opener = opener
	}
}

func WithLogger(l zerolog.Logger) DriverOption {
	return func(o *driverOptions) {
		o.logger = l
	}
}

func WithMailboxSize(n int) DriverOption {
	return func(o *driverOptions) {
		o.mailboxSize = n
	}
}

// WithObserver registers a function that is called from the driver goroutine
// after every cycle.
func WithObserver(fn func(CycleResult)) DriverOption {
	return func(o *driverOptions) {
		o.observer = fn
	}
}

// Driver owns the connection to one light. It keeps asserting the most
// recently requested command, reopening the device whenever it disappears.
//
// Only the goroutine calling Run touches the connection; other goroutines
// talk to the driver through a Handle.
type Driver struct {
	path    string
	opts    driverOptions
	log     zerolog.Logger
	mailbox chan Command

	state connState
	port  Port

	// next is written on the coming cycle. lastAsserted is the newest command
	// any caller asked for and is what next falls back to after a failure.
	next         Command
	lastAsserted Command
}

func NewDriver(path string, options ...DriverOption) *Driver {
	opts := defaultDriverOptions()
	for _, opt := range options {
		opt(&opts)
	}
	if opts.mailboxSize < 1 {
		opts.mailboxSize = 1
	}
	if opts.baud <= 0 {
		opts.baud = DefaultBaud
	}
	if opts.interval <= 0 {
		opts.interval = DefaultInterval
	}

	return &Driver{
		path:         path,
		opts:         opts,
		log:          opts.logger.With().Str("device", path).Logger(),
		mailbox:      make(chan Command, opts.mailboxSize),
		state:        closed,
		next:         NewEnableCommand(),
		lastAsserted: NewEnableCommand(),
	}
}

func (d *Driver) Handle() Handle {
	return Handle{mailbox: d.mailbox}
}

// Run cycles until ctx is cancelled and closes the device on the way out.
func (d *Driver) Run(ctx context.Context) error {
	d.log.Info().Int("baud", d.opts.baud).Dur("interval", d.opts.interval).Msg("driver started")
	defer d.markClosed()

	timer := time.NewTimer(d.opts.interval)
	defer timer.Stop()
	for {
		d.cycle()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d.opts.interval)
		select {
		case <-ctx.Done():
			d.log.Info().Msg("driver stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (d *Driver) cycle() CycleResult {
	d.drain()

	res := CycleResult{Command: d.next}
	if d.state == closed {
		if err := d.open(); err != nil {
			res.Err = err
			d.finish(res)
			return res
		}
		res.Opened = true
	}

	res.Frame = EncodeCommand(d.next)
	if err := writeFrame(d.port, d.path, res.Frame); err != nil {
		d.markClosed()
		res.Err = err
	}
	d.finish(res)
	return res
}

// drain empties the mailbox without blocking. Only the newest command
// survives; anything queued behind it is never written.
func (d *Driver) drain() {
	for {
		select {
		case cmd := <-d.mailbox:
			d.next = cmd
			d.lastAsserted = cmd
		default:
			return
		}
	}
}

func (d *Driver) open() error {
	port, err := openPort(d.opts.opener, d.path, d.opts.baud)
	if err != nil {
		return err
	}
	d.markOpen(port)
	return nil
}

func (d *Driver) markOpen(port Port) {
	d.port = port
	d.state = open
	d.log.Info().Msg("device opened")
}

func (d *Driver) markClosed() {
	if d.state != open {
		return
	}
	if err := d.port.Close(); err != nil {
		d.log.Debug().Err(err).Msg("close after failure")
	}
	d.port = nil
	d.state = closed
}

func (d *Driver) finish(res CycleResult) {
	if res.Err == nil {
		d.log.Debug().Stringer("command", res.Command).Hex("frame", res.Frame).Msg("frame written")
		d.next = NewEnableCommand()
	} else {
		d.log.Warn().Err(res.Err).Stringer("command", d.lastAsserted).Msg("send failed, retrying next cycle")
		d.next = d.lastAsserted
	}
	if d.opts.observer != nil {
		d.opts.observer(res)
	}
}

// OpenPort starts a driver for path in the background and returns its Handle.
// The driver stops when ctx is cancelled.
func OpenPort(ctx context.Context, path string, options ...DriverOption) Handle {
	d := NewDriver(path, options...)
	go d.Run(ctx)
	return d.Handle()
}
