package config

import "sync"

// Runtime holds the settings mutable through the API at runtime: the output
// directory and whether the YouTube key came from the environment.
type Runtime struct {
	mu         sync.RWMutex
	outputDir  string
	keyFromEnv bool
}

// NewRuntime seeds the runtime settings from the loaded config.
func NewRuntime(cfg *Config) *Runtime {
	return &Runtime{
		outputDir:  cfg.OutputDir,
		keyFromEnv: KeyFromEnv(),
	}
}

func (r *Runtime) OutputDir() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outputDir
}

func (r *Runtime) SetOutputDir(dir string) {
	r.mu.Lock()
	r.outputDir = dir
	r.mu.Unlock()
}

func (r *Runtime) KeyFromEnv() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keyFromEnv
}

// SetKeyOverridden marks that a runtime key replaced the environment one.
func (r *Runtime) SetKeyOverridden() {
	r.mu.Lock()
	r.keyFromEnv = false
	r.mu.Unlock()
}
