package pool

import (
	"bufio"
	"fmt"
	"io"

	"dispatch/log"
)

// SpawnError reports a script whose process could not be started.
type SpawnError struct {
	Script string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q: %v", e.Script, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Spawn starts script through the platform shell with stdout piped. It
// returns once the process has started; output is drained into the debug log
// and the exit is logged from a separate goroutine.
func Spawn(script string) error {
	cmd := command(script)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &SpawnError{Script: script, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &SpawnError{Script: script, Err: err}
	}
	childPid := cmd.Process.Pid
	log.Spawn(script, childPid)

	go func() {
		drain(script, stdout)
		log.Exited(script, childPid, cmd.Wait())
	}()
	return nil
}

func drain(script string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Debugf("%s: %s", script, scanner.Text())
	}
	// keep the pipe drained if a line overflowed the scanner
	io.Copy(io.Discard, r)
}
