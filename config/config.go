package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	ListenAddr     string `yaml:"listen_addr"`
	WebDir         string `yaml:"web_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	Debug          bool   `yaml:"debug"`
}

var current = Settings{
	ListenAddr:     ":8000",
	WebDir:         "web",
	MaxUploadBytes: 256 << 20,
}

// Load replaces defaults with values from a yaml file. Fields omitted
// in the file keep their current values.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read config")
	}
	if err := yaml.Unmarshal(data, &current); err != nil {
		return errors.Wrapf(err, "Failed to parse config")
	}
	return nil
}

func ListenAddr() string { return current.ListenAddr }

func SetListenAddr(addr string) { current.ListenAddr = addr }

func WebDir() string { return current.WebDir }

func SetWebDir(dir string) { current.WebDir = dir }

func MaxUploadBytes() int64 { return current.MaxUploadBytes }

func Debug() bool { return current.Debug }

func SetDebug(v bool) { current.Debug = v }
