package eth

import "time"

type EventListener interface {
	OnCall(method string, took time.Duration, err error)
}

type SelectiveListener struct {
	OnCallCb func(method string, took time.Duration, err error)
}

func (l *SelectiveListener) OnCall(method string, took time.Duration, err error) {
	if l.OnCallCb != nil {
		l.OnCallCb(method, took, err)
	}
}
