package plugins

import (
	"context"
	"fmt"
	"log/slog"
)

// Plugin opportunistically augments a message with structured
// side-information. CanHandle is a cheap intent check; Execute may call
// out to external services and must honor ctx cancellation.
type Plugin interface {
	Name() string
	Description() string
	CanHandle(message string) bool
	Execute(ctx context.Context, message string) (any, error)
}

// Result captures one plugin's outcome. Result is set iff Success;
// Error is set iff not.
type Result struct {
	PluginName string `json:"pluginName"`
	Result     any    `json:"result"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// Info describes a registered plugin
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dispatcher holds the ordered plugin registry. Registration happens
// once at startup; afterwards the registry is immutable and safe for
// unsynchronized concurrent reads.
type Dispatcher struct {
	plugins []Plugin
	logger  *slog.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Register appends a plugin. Registration order is execution order for
// the lifetime of the process.
func (d *Dispatcher) Register(p Plugin) {
	d.plugins = append(d.plugins, p)
	d.logger.Info("registered plugin", "name", p.Name())
}

// Dispatch runs every plugin whose CanHandle matches, in registration
// order, capturing each outcome independently. One plugin's failure
// never affects another's invocation or the caller's pipeline.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) []Result {
	var results []Result

	for _, p := range d.plugins {
		if !p.CanHandle(message) {
			continue
		}

		value, err := d.execute(ctx, p, message)
		if err != nil {
			d.logger.Warn("plugin execution failed", "plugin", p.Name(), "error", err)
			results = append(results, Result{
				PluginName: p.Name(),
				Success:    false,
				Error:      err.Error(),
			})
			continue
		}

		results = append(results, Result{
			PluginName: p.Name(),
			Result:     value,
			Success:    true,
		})
	}

	return results
}

// execute isolates a single plugin invocation, converting panics into
// errors so a misbehaving plugin cannot take down dispatch.
func (d *Dispatcher) execute(ctx context.Context, p Plugin, message string) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin panicked: %v", r)
		}
	}()

	return p.Execute(ctx, message)
}

// Available returns name and description for all registered plugins,
// in registration order.
func (d *Dispatcher) Available() []Info {
	infos := make([]Info, len(d.plugins))
	for i, p := range d.plugins {
		infos[i] = Info{Name: p.Name(), Description: p.Description()}
	}
	return infos
}
