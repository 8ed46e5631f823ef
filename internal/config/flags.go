package config

import "flag"

var (
	Dev        bool
	LogPath    string
	ConfigPath string
	Endpoint   string
	Local      bool
)

func Init() {
	flag.BoolVar(&Dev, "dev", false, "Development mode")
	flag.StringVar(&LogPath, "logPath", "", "Path to save the log file")
	flag.StringVar(&ConfigPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&Endpoint, "endpoint", "", "Chat endpoint URL, overrides the config file")
	flag.BoolVar(&Local, "local", false, "Use the local development chat endpoint")
	flag.Parse()
}

// Overrides collects the flag values that take precedence over file and env.
func Overrides() Flags {
	return Flags{
		Dev:      Dev,
		LogPath:  LogPath,
		Endpoint: Endpoint,
		Local:    Local,
	}
}
