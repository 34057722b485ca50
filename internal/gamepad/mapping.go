package gamepad

import "math"

// AxisMapping defines how a raw axis index maps to a stick component or an
// analog trigger.
type AxisMapping struct {
	Index  int32
	Target string // "left_x", "left_y", "right_x", "right_y", "lt", "rt"
	Invert bool
	// For triggers: raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

// IsTrigger reports whether the axis drives an analog trigger.
func (a AxisMapping) IsTrigger() bool {
	return a.Target == "lt" || a.Target == "rt"
}

// ButtonMapping defines how a raw button index maps to a gamepad button.
type ButtonMapping struct {
	Index  int32
	Button Button
}

// DeviceMapping holds the complete mapping for a specific device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
}

// Extended reports whether the mapping covers both sticks and all eight
// buttons, either as digital buttons or trigger axes.
func (m *DeviceMapping) Extended() bool {
	var covered [ButtonCount]bool
	var sticks int
	for _, b := range m.Buttons {
		if b.Button.Valid() {
			covered[b.Button] = true
		}
	}
	for _, a := range m.Axes {
		switch a.Target {
		case "lt":
			covered[LeftTrigger] = true
		case "rt":
			covered[RightTrigger] = true
		case "left_x", "left_y", "right_x", "right_y":
			sticks++
		}
	}
	for _, c := range covered {
		if !c {
			return false
		}
	}
	return sticks == 4
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// ApplyDeadzone returns 0 if the value is within the deadzone threshold.
func ApplyDeadzone(v float64, threshold float64) float64 {
	if math.Abs(v) < threshold {
		return 0
	}
	return v
}

// Built-in mappings for common controllers.

var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: []AxisMapping{
		{Index: 0, Target: "left_x"},
		{Index: 1, Target: "left_y", Invert: true},
		{Index: 2, Target: "right_x"},
		{Index: 3, Target: "right_y", Invert: true},
		{Index: 4, Target: "lt", RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: "rt", RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Button: ButtonA},
		{Index: 1, Button: ButtonB},
		{Index: 2, Button: ButtonX},
		{Index: 3, Button: ButtonY},
		{Index: 4, Button: LeftShoulder},
		{Index: 5, Button: RightShoulder},
	},
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: []AxisMapping{
		{Index: 0, Target: "left_x"},
		{Index: 1, Target: "left_y", Invert: true},
		{Index: 2, Target: "right_x"},
		{Index: 3, Target: "right_y", Invert: true},
		{Index: 4, Target: "lt", RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: "rt", RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Button: ButtonA},        // Cross (×)
		{Index: 1, Button: ButtonB},        // Circle (○)
		{Index: 2, Button: ButtonX},        // Square (□)
		{Index: 3, Button: ButtonY},        // Triangle (△)
		{Index: 9, Button: LeftShoulder},   // L1
		{Index: 10, Button: RightShoulder}, // R1
	},
}

// The Switch Pro controller exposes no analog triggers over the raw joystick
// API, so it does not qualify as an extended layout.
var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: []AxisMapping{
		{Index: 0, Target: "left_x"},
		{Index: 1, Target: "left_y", Invert: true},
		{Index: 2, Target: "right_x"},
		{Index: 3, Target: "right_y", Invert: true},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Button: ButtonA},
		{Index: 1, Button: ButtonB},
		{Index: 2, Button: ButtonX},
		{Index: 3, Button: ButtonY},
		{Index: 4, Button: LeftShoulder},
		{Index: 5, Button: RightShoulder},
	},
}

var genericMapping = &DeviceMapping{
	Name: "generic",
	Axes: []AxisMapping{
		{Index: 0, Target: "left_x"},
		{Index: 1, Target: "left_y", Invert: true},
		{Index: 2, Target: "right_x"},
		{Index: 3, Target: "right_y", Invert: true},
		{Index: 4, Target: "lt", RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: "rt", RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Button: ButtonA},
		{Index: 1, Button: ButtonB},
		{Index: 2, Button: ButtonX},
		{Index: 3, Button: ButtonY},
		{Index: 4, Button: LeftShoulder},
		{Index: 5, Button: RightShoulder},
	},
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the appropriate mapping for a device identified by vendor/product ID.
// Falls back to generic mapping if no specific mapping is found.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}
