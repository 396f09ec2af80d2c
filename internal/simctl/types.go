package simctl

import "strings"

// DeviceState mirrors the state strings simctl reports.
type DeviceState string

const (
	StateShutdown     DeviceState = "Shutdown"
	StateBooted       DeviceState = "Booted"
	StateBooting      DeviceState = "Booting"
	StateShuttingDown DeviceState = "Shutting Down"
)

// Device represents one simulator from `simctl list devices -j`.
type Device struct {
	UDID        string      `json:"udid"`
	Name        string      `json:"name"`
	Runtime     string      `json:"runtime"` // short form, e.g. "iOS-17-2"
	State       DeviceState `json:"state"`
	IsAvailable bool        `json:"is_available"`
}

// runtimePrefix is the common prefix on every CoreSimulator runtime
// identifier; listings carry only the trailing component.
const runtimePrefix = "com.apple.CoreSimulator.SimRuntime."

func shortRuntime(id string) string {
	if rest, ok := strings.CutPrefix(id, runtimePrefix); ok {
		return rest
	}
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}
