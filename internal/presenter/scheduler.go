package presenter

import "time"

// Timer is a cancellable single-shot delay.
type Timer interface {
	Stop() bool
}

// Scheduler creates timers. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
