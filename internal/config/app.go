package config

type AppConfig struct {
	Server   ServerConfig
	Narrator NarratorConfig
	Log      LogConfig
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
	narratorCfg, err := LoadNarrator()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:   serverCfg,
		Narrator: narratorCfg,
		Log:      logCfg,
	}, nil
}
