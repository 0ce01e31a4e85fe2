package logger

import "sync"

var global struct {
	mu         sync.RWMutex
	root       *Logger
	components map[string]*Logger
}

// SetGlobalLogger replaces the process logger. Component loggers handed out
// by Get before the call keep writing to the old one.
func SetGlobalLogger(l *Logger) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.root = l
	global.components = nil
}

// GetGlobalLogger returns the process logger, creating a console default on
// first use.
func GetGlobalLogger() *Logger {
	global.mu.RLock()
	l := global.root
	global.mu.RUnlock()
	if l != nil {
		return l
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	if global.root == nil {
		global.root = NewDefault("")
	}
	return global.root
}

// Get returns the global logger tagged with component name. Loggers are
// cached per name until SetGlobalLogger runs again.
func Get(name string) *Logger {
	global.mu.RLock()
	l, ok := global.components[name]
	global.mu.RUnlock()
	if ok {
		return l
	}

	root := GetGlobalLogger()
	global.mu.Lock()
	defer global.mu.Unlock()
	if l, ok := global.components[name]; ok {
		return l
	}
	if global.root != root {
		return root.WithComponent(name)
	}
	if global.components == nil {
		global.components = make(map[string]*Logger)
	}
	l = root.WithComponent(name)
	global.components[name] = l
	return l
}

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }

func Info(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Info(msg, fields...) }

func Warn(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Warn(msg, fields...) }
