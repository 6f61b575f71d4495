package actors

import (
	"github.com/sasha-s/go-deadlock"
)

var terminateChan chan struct{}
var waitGroup = &deadlock.WaitGroup{}

func SetTerminateChan(term chan struct{}) {
	terminateChan = term
}

func GetTerminateChan() chan struct{} {
	return terminateChan
}

// GetWaitGroup is used by long running goroutines so that shutdown can wait for them to persist state.
func GetWaitGroup() *deadlock.WaitGroup {
	return waitGroup
}
