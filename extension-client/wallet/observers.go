package wallet

import (
	"reflect"
	"sync"
)

// AccountChangeListener is notified when the wallet switches its active account.
type AccountChangeListener interface {
	OnAccountChange(key KeyInfo)
}

// ListenerFunc adapts a function. Listeners are matched by identity, so always register and
// remove the same *ListenerFunc.
type ListenerFunc struct {
	fn func(key KeyInfo)
}

func NewListenerFunc(fn func(key KeyInfo)) *ListenerFunc {
	return &ListenerFunc{fn: fn}
}

func (l *ListenerFunc) OnAccountChange(key KeyInfo) {
	l.fn(key)
}

// Observers is a listener registry wallets can embed.
type Observers struct {
	mu        sync.Mutex
	listeners []AccountChangeListener
}

// AddAccountChangeListener registers listener once. Listeners are matched with ==, so a type
// that cannot be compared is rejected with ErrInvalidListener.
func (o *Observers) AddAccountChangeListener(listener AccountChangeListener) error {
	if !comparableListener(listener) {
		return ErrInvalidListener.Wrapf("%T", listener)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, l := range o.listeners {
		if l == listener {
			return nil
		}
	}
	o.listeners = append(o.listeners, listener)
	return nil
}

// RemoveAccountChangeListener is a no-op for listeners that were never registered, which
// includes every listener AddAccountChangeListener rejects.
func (o *Observers) RemoveAccountChangeListener(listener AccountChangeListener) {
	if !comparableListener(listener) {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for i, l := range o.listeners {
		if l == listener {
			o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
			return
		}
	}
}

func comparableListener(listener AccountChangeListener) bool {
	if listener == nil {
		return false
	}
	return reflect.TypeOf(listener).Comparable()
}

func (o *Observers) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}

// Notify delivers key to the listeners registered at the time of the call.
func (o *Observers) Notify(key KeyInfo) {
	o.mu.Lock()
	snapshot := append([]AccountChangeListener(nil), o.listeners...)
	o.mu.Unlock()

	for _, l := range snapshot {
		l.OnAccountChange(key)
	}
}
