package power

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// DefaultIdleCommand asks the Android device-idle controller for the deep
// idle state.
var DefaultIdleCommand = []string{"cmd", "deviceidle", "get", "deep"}

// DefaultIdleValue is what DefaultIdleCommand prints while in deep doze.
const DefaultIdleValue = "IDLE"

// Oracle answers whether the system is in a low-power window.
type Oracle interface {
	IsSystemIdle() bool
}

// Never is an Oracle for systems without an idle state.
type Never struct{}

func (Never) IsSystemIdle() bool { return false }

// DeviceIdle queries the idle state by running an external command.
type DeviceIdle struct {
	command   []string
	idleValue string
	timeout   time.Duration
}

// NewDeviceIdle creates an oracle running command and comparing its
// trimmed output to idleValue.
func NewDeviceIdle(command []string, idleValue string, timeout time.Duration) *DeviceIdle {
	if len(command) == 0 {
		command = DefaultIdleCommand
	}
	if idleValue == "" {
		idleValue = DefaultIdleValue
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DeviceIdle{command: command, idleValue: idleValue, timeout: timeout}
}

// IsSystemIdle runs the command. Any failure counts as not idle.
func (d *DeviceIdle) IsSystemIdle() bool {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.command[0], d.command[1:]...)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == d.idleValue
}
