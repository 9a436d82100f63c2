package capture

import "errors"

// ErrCalibrationFailed is returned when the noise-floor estimate comes
// back zero, which would otherwise make every sample trigger.
var ErrCalibrationFailed = errors.New("capture: calibration failed")
