// Package browser hands URLs to the user's default web browser, so the
// help overlay can link out to the clinic's web pages.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the default browser on url without waiting for it.
func Open(url string) error {
	var name string
	args := []string{url}
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "linux":
		name = "xdg-open"
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return exec.Command(name, args...).Start()
}
