package config

type Option struct {
	LogLevel   string
	ConfigPath string
	EnvPath    string
	Port       int
}

func NewOptions() *Option {
	return &Option{
		LogLevel:   LogLevelDebug,
		ConfigPath: "./bin/config.json",
		EnvPath:    ".env",
		Port:       DefaultPort,
	}
}
