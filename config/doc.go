// Package config loads service configuration with Viper.
//
// LoadConfig resolves a config.yml (explicit path, ./cmd/<service>/,
// ./config/, the working directory, ~/.config/<service>/ or
// /etc/<service>/) and an optional .env file, binds environment variables
// and unmarshals everything into the caller's struct with mapstructure
// tags:
//
//	cfg := NodeConfig{Cascade: cascade.DefaultConfig[json.RawMessage]()}
//	err := config.LoadConfig("cascade", &cfg, config.WithEnvPrefix("CASCADE"))
//
// Fields absent from every source keep the value they had before the
// call, so defaults are set by pre-populating the struct. With an env
// prefix, CASCADE_SERVER_PORT=9090 overrides server.port.
package config
