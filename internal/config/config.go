// Package config loads novadb's YAML configuration via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is novadb's on-disk configuration.
type Config struct {
	Storage struct {
		// DataDir is the directory the backing data file lives in.
		DataDir string `mapstructure:"data_dir"`
		// FileName is the backing data file's name inside DataDir.
		FileName string `mapstructure:"file_name"`
		// PoolSize is the buffer pool's frame count.
		PoolSize int `mapstructure:"pool_size"`
		// ReplacerK is the LRU-K replacer's k.
		ReplacerK int `mapstructure:"replacer_k"`
	} `mapstructure:"storage"`
}

// Default returns the configuration novadb runs with when no config file
// is given.
func Default() Config {
	var c Config
	c.Storage.DataDir = "data"
	c.Storage.FileName = "novadb.db"
	c.Storage.PoolSize = 64
	c.Storage.ReplacerK = 2
	return c
}

// Load reads a YAML config file at path, falling back to Default() for any
// field the file doesn't set.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.file_name", cfg.Storage.FileName)
	v.SetDefault("storage.pool_size", cfg.Storage.PoolSize)
	v.SetDefault("storage.replacer_k", cfg.Storage.ReplacerK)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
