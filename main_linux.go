//go:build linux

package main

// The evdev backend has no main-thread requirement.
func main() {
	run()
}
