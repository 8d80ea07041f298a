package watcher

import (
	"fmt"
	"os"

	"github.com/gen2brain/beeep"
)

func init() {
	beeep.AppName = "studywatch"
}

// desktopNotify is replaced in tests.
var desktopNotify = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Notify sends a desktop notification for the given alert, falling back to
// stderr when no notification system is available.
func Notify(alert Alert) error {
	if err := desktopNotify("studywatch: "+alert.Title, alert.Message); err != nil {
		return notifyFallback(alert)
	}
	return nil
}

// notifyFallback prints the alert to stderr.
func notifyFallback(alert Alert) error {
	_, err := fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
