package telemetry

import (
	"errors"
	"fmt"
	"os"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig configures continuous profiling
type ProfilerConfig struct {
	ApplicationName string
	ServerAddress   string
}

// Profiler wraps a running Pyroscope session
type Profiler struct {
	session *pyroscope.Profiler
	logger  *zap.Logger
}

// StartProfiler starts pushing CPU, heap and goroutine profiles
func StartProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	if cfg.ServerAddress == "" {
		return nil, errors.New("profiler server address is required")
	}
	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          pyroscopeLogger{logger.Sugar()},
		Tags:            tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	logger.Info("Pyroscope profiler started", zap.String("server_address", cfg.ServerAddress))
	return &Profiler{session: session, logger: logger}, nil
}

// Stop flushes pending profiles
func (p *Profiler) Stop() error {
	if p == nil || p.session == nil {
		return nil
	}
	return p.session.Stop()
}

type pyroscopeLogger struct{ s *zap.SugaredLogger }

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
