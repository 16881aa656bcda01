package comm

import "context"

// Handle queues commands for a Driver. It is a small value and may be copied
// and used from any number of goroutines.
type Handle struct {
	mailbox chan<- Command
}

// Enqueue blocks while the driver's mailbox is full.
func (h Handle) Enqueue(cmd Command) {
	h.mailbox <- cmd
}

// EnqueueContext is like Enqueue but gives up when ctx is done.
func (h Handle) EnqueueContext(ctx context.Context, cmd Command) error {
	select {
	case h.mailbox <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h Handle) Enable() {
	h.Enqueue(NewEnableCommand())
}

func (h Handle) Off() {
	h.Enqueue(NewOffCommand())
}

func (h Handle) Steady(color Color, intensity Intensity) {
	h.Enqueue(NewSteadyCommand(color, intensity))
}
