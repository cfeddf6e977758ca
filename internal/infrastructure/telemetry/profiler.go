package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig points the Pyroscope agent at its server. Basic auth is
// used only when both credentials are set.
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
}

func (c ProfilerConfig) validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("profiler server address is required"))
	}
	if c.ApplicationName == "" {
		errs = append(errs, errors.New("profiler application name is required"))
	}
	return errors.Join(errs...)
}

// ProfileTypes leaves out mutex and block profiles. Renders wait on the
// browser process, not on locks.
var ProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler runs continuous profiling until Stop
type Profiler struct {
	agent    *pyroscope.Profiler
	logger   *zap.Logger
	stopOnce sync.Once
	stopErr  error
}

func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		return p, nil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	agentCfg := pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          logger.Named("pyroscope").Sugar(),
		ProfileTypes:    ProfileTypes,
		Tags:            map[string]string{},
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		agentCfg.Tags["hostname"] = host
	}
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPassword != "" {
		agentCfg.BasicAuthUser = cfg.BasicAuthUser
		agentCfg.BasicAuthPassword = cfg.BasicAuthPassword
	}

	agent, err := pyroscope.Start(agentCfg)
	if err != nil {
		return nil, fmt.Errorf("start profiler: %w", err)
	}
	p.agent = agent
	logger.Info("profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName))
	return p, nil
}

func (p *Profiler) IsEnabled() bool {
	return p.agent != nil
}

// Stop flushes the last profiles. Later calls return the first result.
func (p *Profiler) Stop() error {
	p.stopOnce.Do(func() {
		if p.agent == nil {
			return
		}
		if err := p.agent.Stop(); err != nil {
			p.stopErr = fmt.Errorf("stop profiler: %w", err)
			return
		}
		p.logger.Info("profiler stopped")
	})
	return p.stopErr
}
