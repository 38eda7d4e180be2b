package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load reads the file at path into target and keeps watching it; on change
// the target is re-unmarshaled in place. Panics on a broken config file:
// the server must not start half-configured.
func Load(path string, target any) {
	if !fileExist(path) {
		panic(fmt.Sprintf("config file not exist, path=%v", path))
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("config file changed:", e.Name)
		if err := v.Unmarshal(target); err != nil {
			panic(fmt.Errorf("unmarshal changed config: %w", err))
		}
	})
	v.WatchConfig()

	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}
	if err := v.Unmarshal(target); err != nil {
		panic(err)
	}
}

// Resolve finds a config file: an absolute path is used as-is, a relative
// path is joined with the working directory, and an empty path searches
// upward from the working directory for the default relative path.
func Resolve(path, defaultRelPath string) string {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if path != "" {
		if filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(curDir, path)
	}
	return findUpward(curDir, defaultRelPath)
}

func findUpward(startDir, relPath string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, relPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not found, searched " + relPath + " upward from: " + startDir)
		}
		dir = parent
	}
}

func fileExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
