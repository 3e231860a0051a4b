package config

import (
	"os"
	"path/filepath"
)

const AppName = "smarttable"

var (
	// AppConfigDir is ~/.config/smarttable
	AppConfigDir string

	// AppStateDir is ~/.local/state/smarttable
	AppStateDir string

	// AppConfigFile is ~/.config/smarttable/smarttable.yaml
	AppConfigFile string

	// AppAliasesFile is ~/.config/smarttable/aliases.yaml
	AppAliasesFile string

	// AppLogFile is ~/.local/state/smarttable/smarttable.log
	AppLogFile string
)

func init() {
	setLocs(userHomeDir())
}

// InitLocs initializes all application directory paths and creates them.
// It respects XDG environment variables if set.
func InitLocs() error {
	setLocs(userHomeDir())

	for _, dir := range []string{AppConfigDir, AppStateDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

func setLocs(home string) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, AppName+".yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")
}

// userHomeDir returns the user's home directory, or the temp dir if none.
func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}
