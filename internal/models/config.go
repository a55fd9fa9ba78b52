package models

import (
	"maps"
	"time"
)

// Logical variable names. The set is fixed; addresses behind them are controller specific.
const (
	VarBoilerTemp     = "boiler_temp"
	VarBoilerSetpoint = "boiler_setpoint"
	VarBufferTop      = "buffer_top"
	VarBufferMiddle   = "buffer_middle"
	VarBufferBottom   = "buffer_bottom"
	VarHotWater       = "hot_water"
	VarOutdoorTemp    = "outdoor_temp"
	VarFlowTemp       = "flow_temp"
	VarRoomTemp       = "room_temp"
)

// VariableNames lists every logical channel in display order.
var VariableNames = []string{
	VarBoilerTemp,
	VarBoilerSetpoint,
	VarBufferTop,
	VarBufferMiddle,
	VarBufferBottom,
	VarHotWater,
	VarOutdoorTemp,
	VarFlowTemp,
	VarRoomTemp,
}

// Config is the dashboard configuration. It is replaced wholesale on save.
type Config struct {
	BaseURL             string            `json:"base_url" mapstructure:"base_url"`
	PollIntervalSeconds int               `json:"poll_interval_seconds" mapstructure:"poll_interval_seconds"`
	UseMock             bool              `json:"use_mock" mapstructure:"use_mock"`
	Variables           map[string]string `json:"variables" mapstructure:"variables"` // logical name -> controller address
}

// PollInterval returns the interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Clone returns a deep copy so callers never share the variables map.
func (c Config) Clone() Config {
	c.Variables = maps.Clone(c.Variables)
	return c
}

// DefaultConfig is used until a configuration has been saved.
func DefaultConfig() Config {
	return Config{
		BaseURL:             "https://pellets.bravokilo.cloud",
		PollIntervalSeconds: 60,
		UseMock:             true,
		Variables: map[string]string{
			VarBoilerTemp:     "112/10021/0/0/12161",
			VarBoilerSetpoint: "112/10021/0/0/12001",
			VarBufferTop:      "112/10241/0/0/12197",
			VarBufferMiddle:   "112/10241/0/0/12198",
			VarBufferBottom:   "112/10241/0/0/12199",
			VarHotWater:       "120/10221/0/0/12115",
			VarOutdoorTemp:    "120/10221/0/0/12101",
			VarFlowTemp:       "120/10101/0/0/12241",
			VarRoomTemp:       "120/10101/0/0/12111",
		},
	}
}
