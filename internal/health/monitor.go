// Package health implements the bot health monitor: periodic HTTP probes
// of configured targets with a consecutive-failure-triggered restart
// fallback chain.
package health

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"llmgateway/internal/config"
)

const (
	httpOKMin = 200
	httpOKMax = 300
)

// Target is one health-check endpoint plus the containers to restart when
// it trips the failure threshold.
type Target struct {
	Name              string
	URL               string
	RestartContainers []string
}

// EndpointLabel is the log-friendly identifier for a target.
func (t Target) EndpointLabel() string {
	return "http:" + t.URL
}

// BuildTargets derives Target values from configured URLs, deriving each
// target's name and restart-container list from the URL's host the way
// the original's _build_target does.
func BuildTargets(urls []string, restartContainers []string) []Target {
	targets := make([]Target, 0, len(urls))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		host := ""
		if err == nil {
			host = u.Hostname()
		}
		name := host
		if name == "" {
			name = raw
		}
		if err == nil && u.Path != "" && u.Path != "/" {
			name += u.Path
		}

		var containers []string
		switch {
		case len(restartContainers) > 0 && host != "" && contains(restartContainers, host):
			containers = []string{host}
		case len(restartContainers) > 0:
			containers = restartContainers
		case host != "":
			containers = []string{host}
		}

		targets = append(targets, Target{Name: name, URL: raw, RestartContainers: containers})
	}
	return targets
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Monitor periodically probes its targets and restarts them after
// max-failures consecutive unhealthy probes.
type Monitor struct {
	cfg      config.HealthConfig
	targets  []Target
	client   *http.Client
	mu       sync.Mutex
	failures map[string]int

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Monitor. Targets are derived from cfg.URLs/RestartContainers.
func New(cfg config.HealthConfig) *Monitor {
	targets := BuildTargets(cfg.URLs, cfg.RestartContainers)
	failures := make(map[string]int, len(targets))
	for _, t := range targets {
		failures[t.Name] = 0
	}
	return &Monitor{
		cfg:      cfg,
		targets:  targets,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds * float64(time.Second))},
		failures: failures,
	}
}

// Enabled reports whether the monitor has a configured target and was not
// explicitly disabled.
func (m *Monitor) Enabled() bool {
	return m.cfg.Enabled && len(m.targets) > 0
}

// TargetStatus is a point-in-time snapshot of one monitored target's
// consecutive-failure count against its restart threshold.
type TargetStatus struct {
	Name                string `json:"name"`
	URL                 string `json:"url"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	MaxFailures         int    `json:"max_failures"`
	Healthy             bool   `json:"healthy"`
}

// Status snapshots every monitored target for health/readiness reporting.
func (m *Monitor) Status() []TargetStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TargetStatus, 0, len(m.targets))
	for _, t := range m.targets {
		count := m.failures[t.Name]
		out = append(out, TargetStatus{
			Name:                t.Name,
			URL:                 t.URL,
			ConsecutiveFailures: count,
			MaxFailures:         m.cfg.MaxFailures,
			Healthy:             count < m.cfg.MaxFailures,
		})
	}
	return out
}

// Start launches the monitor loop as a background goroutine. It is a
// no-op if the monitor is disabled or already running.
func (m *Monitor) Start(ctx context.Context) {
	if !m.Enabled() {
		log.Info().Msg("bot_health_monitor_disabled")
		return
	}
	if m.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	log.Info().
		Int("targets", len(m.targets)).
		Int("interval_seconds", m.cfg.IntervalSeconds).
		Int("max_failures", m.cfg.MaxFailures).
		Msg("bot_health_monitor_started")

	go m.run(runCtx)
}

// Stop cancels the monitor loop and waits for in-flight probes to drain.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
	log.Info().Msg("bot_health_monitor_stopped")
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	if m.cfg.StartupGraceSeconds > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(m.cfg.StartupGraceSeconds) * time.Second):
		}
	}

	ticker := time.NewTicker(time.Duration(m.cfg.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		m.probeAll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Monitor) probeAll(ctx context.Context) {
	for _, target := range m.targets {
		if ctx.Err() != nil {
			return
		}
		if m.ping(ctx, target.URL) {
			m.mu.Lock()
			m.failures[target.Name] = 0
			m.mu.Unlock()
			continue
		}

		m.mu.Lock()
		m.failures[target.Name]++
		count := m.failures[target.Name]
		m.mu.Unlock()

		log.Warn().
			Int("consecutive", count).
			Int("threshold", m.cfg.MaxFailures).
			Str("target", target.EndpointLabel()).
			Msg("bot_health_fail")

		if count >= m.cfg.MaxFailures {
			m.restart(ctx, target)
			m.mu.Lock()
			m.failures[target.Name] = 0
			m.mu.Unlock()
		}
	}
}

func (m *Monitor) ping(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", target).Msg("bot_health_http_fail")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= httpOKMin && resp.StatusCode < httpOKMax
}

func (m *Monitor) restart(ctx context.Context, target Target) {
	log.Warn().
		Int("threshold", m.cfg.MaxFailures).
		Str("target", target.EndpointLabel()).
		Msg("bot_restart_trigger")

	if len(m.cfg.RestartCmd) == 0 {
		if !m.restartContainersViaDocker(ctx, target.RestartContainers) {
			log.Warn().Str("target", target.EndpointLabel()).Msg("bot_restart_skip_command_missing")
		}
		return
	}

	if err := runRestartCmd(ctx, m.cfg.RestartCmd); err != nil {
		log.Warn().Err(err).Strs("cmd", m.cfg.RestartCmd).Str("target", target.EndpointLabel()).Msg("bot_restart_cmd_fail")
		m.restartContainersViaDocker(ctx, target.RestartContainers)
		return
	}
	log.Info().Strs("cmd", m.cfg.RestartCmd).Str("target", target.EndpointLabel()).Msg("bot_restart_cmd_ok")
}

func runRestartCmd(ctx context.Context, cmd []string) error {
	if len(cmd) == 0 {
		return nil
	}
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	return c.Run()
}

func (m *Monitor) restartContainersViaDocker(ctx context.Context, containers []string) bool {
	if len(containers) == 0 {
		return false
	}

	client := dockerSocketClient(m.cfg.DockerSocket)
	restarted := false
	for _, container := range containers {
		restartURL := "http://localhost/containers/" + container + "/restart"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, restartURL, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Warn().Err(err).Str("container", container).Msg("bot_restart_docker_fail")
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= httpOKMin && resp.StatusCode < httpOKMax {
			restarted = true
			log.Info().Str("container", container).Msg("bot_restart_docker_ok")
		} else {
			log.Warn().Str("container", container).Int("status", resp.StatusCode).Msg("bot_restart_docker_fail")
		}
	}
	return restarted
}

// dockerSocketClient builds an HTTP client that dials the Docker control
// socket over Unix domain sockets, the idiomatic Go replacement for the
// original's `curl --unix-socket` subprocess invocation.
func dockerSocketClient(socketPath string) *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}
}
