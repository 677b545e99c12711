package config

type AppConfig struct {
	Server     ServerConfig
	Log        LogConfig
	Uplink     UplinkConfig
	Simulation SimulationConfig
	Session    SessionConfig
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
	uplinkCfg, err := LoadUplink()
	if err != nil {
		return AppConfig{}, err
	}
	simCfg, err := LoadSimulation()
	if err != nil {
		return AppConfig{}, err
	}
	sessionCfg, err := LoadSession()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:     serverCfg,
		Log:        logCfg,
		Uplink:     uplinkCfg,
		Simulation: simCfg,
		Session:    sessionCfg,
	}, nil
}
