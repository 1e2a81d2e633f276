package config

type AppConfig struct {
	Server  ServerConfig
	Backend BackendConfig
	Log     LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	backendCfg, err := LoadBackend()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:  serverCfg,
		Backend: backendCfg,
		Log:     logCfg,
	}, nil
}
