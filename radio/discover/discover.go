// Package discover finds the SDR front end's device node via udev, so
// the daemon does not need a hardcoded device path on systems where the
// node name can shift across reboots (e.g. iio:deviceN renumbering).
package discover

import (
	"fmt"

	"github.com/jochenvg/go-udev"
)

// Subsystem is the udev subsystem the front end's kernel driver
// registers under.
const Subsystem = "iio"

// DevicePath returns the /dev node of the first device in Subsystem
// whose "OOK315_ROLE" udev property equals role (set by a udev rule
// shipped alongside the driver). It returns an error if none match.
func DevicePath(role string) (string, error) {
	u := udev.Udev{}
	enum := u.NewEnumerate()
	if err := enum.AddMatchSubsystem(Subsystem); err != nil {
		return "", fmt.Errorf("discover: matching subsystem %s: %w", Subsystem, err)
	}
	devices, err := enum.Devices()
	if err != nil {
		return "", fmt.Errorf("discover: enumerating %s devices: %w", Subsystem, err)
	}
	for _, d := range devices {
		if d.PropertyValue("OOK315_ROLE") == role {
			if node := d.Devnode(); node != "" {
				return node, nil
			}
		}
	}
	return "", fmt.Errorf("discover: no %s device found with role %q", Subsystem, role)
}
