//go:build windows

package platformloop

import "context"

func newPlatformDriver(ctx context.Context, cfg *loopOptions) (Driver, error) {
	queue, err := newWin32Queue()
	if err != nil {
		return nil, err
	}
	return newMessagePumpDriver(queue, cfg).withContext(ctx), nil
}
