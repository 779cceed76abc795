package platformloop

import (
	"github.com/joeycumines/logiface"
)

// Driver integrates polling of a [RuntimeHandle] with one platform's native
// event loop.
//
// Start is idempotent: while a chain is active, further calls return nil
// without polling. RequestStop is level-triggered and safe to call from any
// goroutine, any number of times; the chain ends within one polling interval
// and never polls afterwards.
type Driver interface {
	// Start polls rt from the native loop. Blocking drivers return once the
	// loop terminates; the Android driver returns as soon as the host has
	// been told to begin.
	Start(rt RuntimeHandle) error
	// RequestStop asks the active chain, if any, to end.
	RequestStop()
}

// pollStep is the poll operation shared by every driver: affinity check,
// exactly one PollOnce, then the completion policy.
type pollStep struct {
	rt     RuntimeHandle
	guard  *threadGuard
	logger *logiface.Logger[logiface.Event]
	driver string
	// stopOnCompletion makes run report stop once the root task is done.
	stopOnCompletion bool
	// threadCheck enables the guard.
	threadCheck bool
}

// run polls once. It returns stop=true when the loop should end, and a
// non-nil error when it must end because of a failure.
func (p *pollStep) run() (stop bool, err error) {
	if p.threadCheck {
		if err := p.guard.Check(); err != nil {
			p.logger.Crit().
				Str("driver", p.driver).
				Err(err).
				Log("poll from foreign thread")
			return true, err
		}
	}

	if err := p.rt.PollOnce(); err != nil {
		p.logger.Err().
			Str("driver", p.driver).
			Err(err).
			Log("poll failed")
		return true, err
	}

	if p.stopOnCompletion && p.rt.Done() {
		p.logger.Debug().
			Str("driver", p.driver).
			Log("root task completed, stopping")
		return true, nil
	}

	return false, nil
}
