package adb

import (
	"bufio"
	"strings"
)

// Device represents one line of `adb devices -l` output.
type Device struct {
	Serial  string `json:"serial"`
	State   string `json:"state"` // "device", "offline", "unauthorized", etc.
	Product string `json:"product,omitempty"`
	Model   string `json:"model,omitempty"`
	Device  string `json:"device,omitempty"` // device codename
}

// IsOnline returns true if the device is in "device" state (ready).
func (d Device) IsOnline() bool {
	return d.State == "device"
}

// parseDeviceList parses `adb devices -l` output: a banner line, then one
// whitespace-separated line per device with trailing key:value fields.
func parseDeviceList(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "List of") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{
			Serial: fields[0],
			State:  fields[1],
		}
		for _, f := range fields[2:] {
			parts := strings.SplitN(f, ":", 2)
			if len(parts) != 2 {
				continue
			}
			switch parts[0] {
			case "model":
				d.Model = parts[1]
			case "product":
				d.Product = parts[1]
			case "device":
				d.Device = parts[1]
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// parsePackageList parses `pm list packages` output, one "package:<name>"
// line per installed package.
func parsePackageList(output string) []string {
	var packages []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		name, ok := strings.CutPrefix(line, "package:")
		if !ok || name == "" {
			continue
		}
		packages = append(packages, name)
	}
	return packages
}
