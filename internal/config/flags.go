package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags adds the configuration flags to fs, using the built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringSlice("targets", d.Targets, "Comma-separated ping targets")
	fs.Duration("interval", d.Interval, "Tick interval")
	fs.Duration("ping-timeout", d.PingTimeout, "Ping timeout per target")
	fs.String("ping-mode", d.PingMode, "Ping implementation: exec or icmp")
	fs.Bool("icmp-privileged", d.ICMPPrivileged, "Use raw ICMP sockets instead of unprivileged datagram sockets")
	fs.Int("speedtest-every", d.SpeedtestEvery, "Run a speed test every N ticks")
	fs.String("speedtest-binary", d.SpeedtestBinary, "Path to the Ookla speedtest CLI")
	fs.String("speedtest-server-id", d.SpeedtestServerID, "Pin speed tests to a server id")
	fs.Duration("speedtest-timeout", d.SpeedtestTimeout, "Speed test timeout")
	fs.String("log-dir", d.LogDir, "Directory for NDJSON result logs (default <executable>/../logs)")
	fs.String("db", d.DatabasePath, "Optional SQLite database mirroring every result")
	fs.Int("retention-days", d.RetentionDays, "Days of mirrored results kept in the database")
	fs.String("log-level", d.LogLevel, "Log level: debug, info, warn, error")
}

// ApplyFlags overrides cfg with every flag explicitly set on the command line.
func ApplyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "targets":
			cfg.Targets, err = fs.GetStringSlice(f.Name)
		case "interval":
			cfg.Interval, err = fs.GetDuration(f.Name)
		case "ping-timeout":
			cfg.PingTimeout, err = fs.GetDuration(f.Name)
		case "ping-mode":
			cfg.PingMode, err = fs.GetString(f.Name)
		case "icmp-privileged":
			cfg.ICMPPrivileged, err = fs.GetBool(f.Name)
		case "speedtest-every":
			cfg.SpeedtestEvery, err = fs.GetInt(f.Name)
		case "speedtest-binary":
			cfg.SpeedtestBinary, err = fs.GetString(f.Name)
		case "speedtest-server-id":
			cfg.SpeedtestServerID, err = fs.GetString(f.Name)
		case "speedtest-timeout":
			cfg.SpeedtestTimeout, err = fs.GetDuration(f.Name)
		case "log-dir":
			cfg.LogDir, err = fs.GetString(f.Name)
		case "db":
			cfg.DatabasePath, err = fs.GetString(f.Name)
		case "retention-days":
			cfg.RetentionDays, err = fs.GetInt(f.Name)
		case "log-level":
			cfg.LogLevel, err = fs.GetString(f.Name)
		}
	})
	return err
}
