// Package config declares the top-level CLI grammar of the hidmux binary.
package config

import (
	"hidmux/internal/cmd"
)

// LogConfig is the shared logging configuration of every command.
type LogConfig struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"HIDMUX_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"HIDMUX_LOG_FILE"`
	RawFile string `help:"Write raw report hex dumps to this file" env:"HIDMUX_LOG_RAW_FILE"`
}

// CLI is the root command structure parsed by Kong.
type CLI struct {
	ConfigPath string    `name:"config" help:"Path to a configuration file" env:"HIDMUX_CONFIG"`
	Log        LogConfig `embed:"" prefix:"log."`

	Serve     cmd.Serve         `cmd:"" help:"Run the multiplexer daemon"`
	Ctl       cmd.Ctl           `cmd:"" help:"Control a running daemon"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration utilities"`
	Install   cmd.Install       `cmd:"" help:"Install hidmuxd as a systemd service"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Remove the hidmuxd systemd service"`
}
