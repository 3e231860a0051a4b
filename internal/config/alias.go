package config

import (
	"os"
	"sync"

	"github.com/smarttable/smarttable/internal/config/data"
)

// Aliases maps short names to dataset locations, a file path or an S3 URI.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex
}

// NewAliases creates an empty Aliases.
func NewAliases() *Aliases {
	return &Aliases{
		Alias: make(map[string]string),
	}
}

// Load loads aliases from the default aliases file.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom loads aliases from a specific file path, loaded entries taking
// precedence. A missing file is not an error.
func (a *Aliases) LoadFrom(path string) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := NewAliases()
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}
	for k, v := range loaded.Alias {
		a.Alias[k] = v
	}

	return nil
}

// SaveTo saves aliases to a specific file path.
func (a *Aliases) SaveTo(path string) error {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return data.SaveYAML(path, a)
}

// Resolve returns the dataset location for an alias, or the name itself.
func (a *Aliases) Resolve(name string) string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if loc, ok := a.Alias[name]; ok {
		return loc
	}
	return name
}

// Set sets an alias.
func (a *Aliases) Set(alias, loc string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.Alias[alias] = loc
}
