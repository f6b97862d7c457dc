package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen string      `yaml:"listen"`
	Origin string      `yaml:"origin"`
	Store  StoreConfig `yaml:"store"`
	// Send conditional headers on revalidation even when the stored entry
	// has no validator (compatibility with origins expecting them).
	SendEmptyValidators bool `yaml:"sendEmptyValidators"`
}

type StoreConfig struct {
	// Backend is one of memory, sqlite, leveldb.
	Backend string `yaml:"backend"`
	// Path is the database file (sqlite) or directory (leveldb).
	Path string `yaml:"path"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}
