// Package notify delivers user-visible confirmation messages emitted
// by cart and wishlist mutations. The server-side implementation just
// logs; a UI client would render these as toasts.
package notify

import "log"

type Notifier interface {
	Notify(userID, message string)
}

type LogNotifier struct {
	Logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Notify(userID, message string) {
	n.Logger.Printf("notify user=%s: %s", userID, message)
}
