package auth

import (
	"fmt"

	"github.com/mssola/useragent"
)

// SummarizeDevice renders a short human-readable description of the client
// that signed in, carried on the session snapshot for display.
func SummarizeDevice(userAgent string) string {
	if userAgent == "" {
		return "unknown device"
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	osInfo := ua.OSInfo()

	switch {
	case name != "" && osInfo.Name != "":
		return fmt.Sprintf("%s %s on %s", name, version, osInfo.Name)
	case name != "":
		return fmt.Sprintf("%s %s", name, version)
	default:
		return "unknown device"
	}
}
