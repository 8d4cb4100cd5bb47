// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

const (
	// Startup
	OpInitialize  Op = "initialize application"
	OpConfigLoad  Op = "load configuration"
	OpCacheOpen   Op = "open credential cache"
	OpDeviceID    Op = "load device id"
	OpMPRISStart  Op = "start media controls"
	OpStderrStart Op = "capture audio backend output"

	// Session
	OpPlayerStart Op = "start player"
	OpLogin       Op = "log in"
	OpLogout      Op = "log out"
	OpConnect     Op = "connect"
	OpTokenFetch  Op = "fetch access token"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// FormatMessage is Format for failures that only carry a message.
func FormatMessage(op Op, msg string) string {
	if msg == "" {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, msg)
}
