package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Mode          string // execution mode: normal, build, or image
	ManifestsPath string // directory of .hcl provider manifests

	SnapshotPath string // image mode: snapshot file to install at startup
	EncodePath   string // write the captured environment snapshot here
	Contract     string // resolve and print the providers for this contract

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Mode == "image" && cfg.SnapshotPath == "" {
		return nil, errors.New("image mode requires a snapshot file: the environment cannot be read inside an image")
	}
	if cfg.Mode == "image" && cfg.EncodePath != "" {
		return nil, errors.New("a snapshot cannot be encoded inside an image")
	}
	return &cfg, nil
}
