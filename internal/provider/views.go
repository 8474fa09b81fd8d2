package provider

// NewDynalite returns the Dynalite network view. Its tables are described
// but not yet derived from the raw catalog.
func NewDynalite() Provider {
	return &placeholder{
		mode:        "Dynalite",
		description: "Parsed view showing Dynalite lighting control components",
		tables: map[string]string{
			"dimmers_boxes":     "Physical dimmer units and control boxes",
			"modules":           "Dynalite network modules and their configurations",
			"physical_channels": "Physical channel assignments on modules",
			"logical_channels":  "Logical channel mappings and groupings",
			"areas":             "Lighting control areas and their configurations",
			"panels":            "Control panels and their button mappings",
			"presets":           "Lighting presets and their channel configurations",
		},
	}
}

// NewDevice returns the end-user device view. Its tables are described but
// not yet derived from the raw catalog.
func NewDevice() Provider {
	return &placeholder{
		mode:        "Device",
		description: "User-friendly view of controllable devices and automation",
		tables: map[string]string{
			"lights":      "All lighting devices including dimmable and switch-only lights",
			"fans":        "Ceiling fans and ventilation devices with speed control",
			"curtains":    "Motorized curtains, blinds, and window coverings",
			"scenes":      "User-defined lighting and device scenes/moods",
			"rooms":       "Room-based device groupings and control",
			"schedules":   "Time-based automation and scheduling",
			"sensors":     "Motion sensors, daylight sensors, and other inputs",
			"controllers": "Physical control interfaces (wall panels, remotes)",
		},
	}
}
