package registry

// GeniSys configuration tables with a declared record layout. Tables not
// listed here are exposed raw.
var genisysSchemas = []*Schema{
	{
		Name: "Dimmer", Table: "Phys_Dimmers", PrimaryKey: "dimmer_id",
		Fields: []Field{
			{Name: "dimmer_id", Column: "Dimmer_ID", Type: Int, Required: true},
			{Name: "dimmer_type", Column: "LoadController", Type: String, Required: true},
			{Name: "zone_id", Column: "Zone_ID", Type: Int, Required: true},
			{Name: "box_number", Column: "BoxNumber", Type: Int, Required: true},
		},
	},
	{
		Name: "Module", Table: "Phys_Modules", PrimaryKey: "module_id",
		Fields: []Field{
			{Name: "module_id", Column: "Module_ID", Type: Int, Required: true},
			{Name: "module_type", Column: "Module", Type: String, Required: true},
			{Name: "slot", Column: "Slot", Type: Int, Required: true},
			{Name: "dimmer_id", Column: "Dimmer_ID", Type: Int, Required: true},
		},
	},
	{
		Name: "PhysicalChannel", Table: "Phys_ChannelAlloc", PrimaryKey: "channel_id",
		Fields: []Field{
			{Name: "channel_id", Column: "Phys_Channel_ID", Type: Int, Required: true},
			{Name: "number", Column: "PhysicalChannel", Type: Int, Required: true},
			{Name: "locked", Column: "Locked", Type: Bool, Required: true},
			{Name: "module_id", Column: "Module_ID", Type: Int, Required: true},
			{Name: "area_channels_id", Column: "AreaChannel_ID", Type: Int},
		},
	},
	{
		Name: "LogicalChannel", Table: "AreaChannels", PrimaryKey: "channel_id",
		Fields: []Field{
			{Name: "channel_id", Column: "AreaChannels_ID", Type: Int, Required: true},
			{Name: "number", Column: "Channel", Type: Int, Required: true},
			{Name: "name", Column: "Channelname", Type: String, Default: ""},
			{Name: "area_id", Column: "Area", Type: Int, Required: true},
			{Name: "object_id", Column: "GenisysObject_ID", Type: Int},
			{Name: "channel_type", Type: String},
		},
	},
	{
		Name: "Zone", Table: "GenisysZones", PrimaryKey: "zone_id",
		Fields: []Field{
			{Name: "zone_id", Column: "Zone_ID", Type: Int, Required: true},
			{Name: "name", Column: "Zone", Type: String, Required: true},
		},
	},
	{
		Name: "Area", Table: "AreaNames", PrimaryKey: "area_id",
		Fields: []Field{
			{Name: "area_id", Column: "Area", Type: Int, Required: true},
			{Name: "name", Column: "AreaName", Type: String, Default: ""},
			{Name: "timeout", Column: "Timeout", Type: Int, Default: int64(0)},
			{Name: "zone_id", Column: "Zone_ID", Type: Int},
			{Name: "object_id", Column: "GeniSysObject_ID", Type: Int},
			{Name: "area_type", Type: String},
		},
	},
	{
		Name: "Panel", Table: "GeniSysPanels", PrimaryKey: "panel_id",
		Fields: []Field{
			{Name: "panel_id", Column: "Panel_ID", Type: Int, Required: true},
			{Name: "name", Column: "Panel", Type: String, Required: true},
			{Name: "box_number", Column: "BoxNumber", Type: Int, Required: true},
			{Name: "any_button_on", Column: "AnyButtonTurnOn", Type: Bool, Required: true},
			{Name: "panel_type", Column: "PanelType", Type: String, Required: true},
			{Name: "config_type", Column: "PanelConfig", Type: String, Default: ""},
			{Name: "device_code", Column: "DeviceCode", Type: Int, Required: true},
		},
	},
	{
		Name: "Button", Table: "GeniSysButtonFunctions", PrimaryKey: "number",
		Fields: []Field{
			{Name: "panel_id", Column: "Panel_ID", Type: Int},
			{Name: "number", Column: "Button", Type: Int},
			{Name: "name", Column: "Function", Type: String},
			{Name: "area_id", Column: "Area", Type: Int},
			{Name: "channel_number", Column: "Channel", Type: Int},
			{Name: "fade", Column: "FadeTime", Type: Int},
			{Name: "engraving", Column: "Engraving", Type: String},
		},
	},
	{
		Name: "ObjectType", Table: "GeniSysObjects", PrimaryKey: "object_id",
		Fields: []Field{
			{Name: "object_id", Column: "Object_ID", Type: Int},
			{Name: "object_type", Column: "Object", Type: String},
			{Name: "area_id", Column: "Area_ID", Type: Int},
		},
	},
	{
		Name: "Comms", Table: "Comms", PrimaryKey: "comms",
		Fields: []Field{
			{Name: "comms", Type: Bool, Required: true},
			{Name: "com_port_1", Column: "Comport1", Type: Int, Required: true},
			{Name: "baud_1", Column: "baud1", Type: Int, Required: true},
			{Name: "data_bits_1", Column: "databits1", Type: Int, Required: true},
			{Name: "parity_1", Column: "parity1", Type: IntOrString},
			{Name: "stop_bits_1", Column: "stopbits1", Type: Int, Required: true},
			{Name: "com_port_2", Column: "Comport2", Type: Int, Required: true},
			{Name: "baud_2", Column: "baud2", Type: Int, Required: true},
			{Name: "data_bits_2", Column: "databits2", Type: Int, Required: true},
			{Name: "parity_2", Column: "parity2", Type: IntOrString},
			{Name: "stop_bits_2", Column: "stopbits2", Type: Int, Required: true},
			{Name: "com_port_3", Column: "ComPort3", Type: Int, Required: true},
			{Name: "com_port_4", Column: "ComPort4", Type: Int, Required: true},
			{Name: "use_tcp", Column: "UseTCP", Type: Bool, Required: true},
			{Name: "hostname", Type: String, Required: true},
		},
	},
	{
		Name: "AreaChannelLoad", Table: "AreaChannelLoads", PrimaryKey: "channel_id",
		Fields: []Field{
			{Name: "channel_id", Column: "AreaChannels_ID", Type: Int, Required: true},
			// true dims, false switches
			{Name: "dimming", Column: "Dimming", Type: Bool, Default: false},
			// true when the load is below Wattage
			{Name: "less_than", Column: "Lessthan", Type: Bool, Default: false},
			{Name: "wattage", Column: "Wattage", Type: Int},
			{Name: "fluoro", Column: "Fluoro", Type: Bool, Default: false},
			{Name: "dsi", Column: "dimming", Type: Bool, Default: false},
		},
	},
}

var defaultRegistry = MustNew(genisysSchemas...)

// Default returns the registry of GeniSys table schemas.
func Default() *Registry {
	return defaultRegistry
}
