package todoapp

import (
	"sync"
	"time"

	"github.com/vectis-labs/vectis/extension-client/core/logging"
)

type NotificationLevel string

const (
	LevelLoading NotificationLevel = "loading"
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

const (
	msgLoading           = "Loading..."
	msgInstantiated      = "Instantiated!"
	msgExecuted          = "Successfully executed!"
	msgExecuteFailed     = "Error when executed"
	msgConnectWallet     = "Please connect your wallet"
	msgWalletConnected   = "Wallet connected"
	msgChainNotSupported = "Chain not supported"
)

// Notifier shows short user facing messages.
type Notifier interface {
	Loading(msg string)
	Success(msg string)
	Error(msg string)
}

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	Time    time.Time         `json:"time"`
}

// PromiseMessages are shown by Promise around an operation. An empty OnError shows the error
// text itself.
type PromiseMessages struct {
	Loading string
	Success string
	OnError string
}

// Promise notifies loading, runs fn, then notifies success or error.
func Promise[T any](n Notifier, msgs PromiseMessages, fn func() (T, error)) (T, error) {
	n.Loading(msgs.Loading)

	res, err := fn()
	if err != nil {
		if msgs.OnError != "" {
			n.Error(msgs.OnError)
		} else {
			n.Error(err.Error())
		}
		return res, err
	}

	n.Success(msgs.Success)
	return res, nil
}

var _ Notifier = &LogNotifier{}

type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notifier")}
}

func (n *LogNotifier) Loading(msg string) {
	n.logger.Debug(msg)
}

func (n *LogNotifier) Success(msg string) {
	n.logger.Info(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Error(msg)
}

var _ Notifier = &RecordingNotifier{}

// RecordingNotifier keeps the latest notifications and forwards them to an optional next
// notifier.
type RecordingNotifier struct {
	mu      sync.Mutex
	next    Notifier
	limit   int
	entries []Notification
}

// NewRecordingNotifier keeps at most limit entries, zero keeps all.
func NewRecordingNotifier(limit int, next Notifier) *RecordingNotifier {
	return &RecordingNotifier{limit: limit, next: next}
}

func (n *RecordingNotifier) record(level NotificationLevel, msg string) {
	n.mu.Lock()
	n.entries = append(n.entries, Notification{Level: level, Message: msg, Time: time.Now()})
	if n.limit > 0 && len(n.entries) > n.limit {
		n.entries = append([]Notification(nil), n.entries[len(n.entries)-n.limit:]...)
	}
	n.mu.Unlock()
}

func (n *RecordingNotifier) Loading(msg string) {
	n.record(LevelLoading, msg)
	if n.next != nil {
		n.next.Loading(msg)
	}
}

func (n *RecordingNotifier) Success(msg string) {
	n.record(LevelSuccess, msg)
	if n.next != nil {
		n.next.Success(msg)
	}
}

func (n *RecordingNotifier) Error(msg string) {
	n.record(LevelError, msg)
	if n.next != nil {
		n.next.Error(msg)
	}
}

func (n *RecordingNotifier) Entries() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.entries...)
}

// Level returns the messages recorded at level, oldest first.
func (n *RecordingNotifier) Level(level NotificationLevel) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var msgs []string
	for _, e := range n.entries {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
