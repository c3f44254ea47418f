package config

import (
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration file whenever it is written and passes
// the fresh configuration, or the load error, to fn. It does nothing when
// running on defaults.
func (c *Config) Watch(fn func(*Config, error)) {
	if c.file == "" || c.v == nil {
		return
	}
	path := c.file
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(Load(path))
	})
	c.v.WatchConfig()
}
