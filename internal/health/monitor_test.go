package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"llmgateway/internal/config"
)

func TestBuildTargetsDerivesNameAndContainerFromHost(t *testing.T) {
	targets := BuildTargets([]string{"http://bot-a:8080/health/ready"}, nil)
	require.Len(t, targets, 1)
	require.Equal(t, "bot-a/health/ready", targets[0].Name)
	require.Equal(t, []string{"bot-a"}, targets[0].RestartContainers)
}

func TestBuildTargetsPrefersExplicitRestartContainers(t *testing.T) {
	targets := BuildTargets([]string{"http://bot-a:8080/health"}, []string{"other-container"})
	require.Len(t, targets, 1)
	require.Equal(t, []string{"other-container"}, targets[0].RestartContainers)
}

func TestBuildTargetsUsesHostWhenListedInRestartContainers(t *testing.T) {
	targets := BuildTargets([]string{"http://bot-a:8080/health"}, []string{"bot-a", "bot-b"})
	require.Equal(t, []string{"bot-a"}, targets[0].RestartContainers)
}

func TestMonitorEnabledRequiresTargetsAndFlag(t *testing.T) {
	m := New(config.HealthConfig{Enabled: true, URLs: nil})
	require.False(t, m.Enabled())

	m = New(config.HealthConfig{Enabled: false, URLs: []string{"http://x/health"}})
	require.False(t, m.Enabled())

	m = New(config.HealthConfig{Enabled: true, URLs: []string{"http://x/health"}})
	require.True(t, m.Enabled())
}

func TestMonitorResetsFailuresOnSuccessfulProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(config.HealthConfig{
		Enabled:         true,
		URLs:            []string{srv.URL},
		MaxFailures:     3,
		TimeoutSeconds:  1,
		IntervalSeconds: 60,
	})
	m.failures[m.targets[0].Name] = 2

	m.probeAll(context.Background())

	require.Equal(t, 0, m.failures[m.targets[0].Name])
}

func TestMonitorIncrementsFailuresOnUnhealthyProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := New(config.HealthConfig{
		Enabled:         true,
		URLs:            []string{srv.URL},
		MaxFailures:     5,
		TimeoutSeconds:  1,
		IntervalSeconds: 60,
	})

	m.probeAll(context.Background())

	require.Equal(t, 1, m.failures[m.targets[0].Name])
}

func TestMonitorTriggersRestartAtThreshold(t *testing.T) {
	var restartCalled bool
	restartSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		restartCalled = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer restartSrv.Close()

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	m := New(config.HealthConfig{
		Enabled:         true,
		URLs:            []string{unhealthy.URL},
		MaxFailures:     1,
		TimeoutSeconds:  1,
		IntervalSeconds: 60,
	})

	m.probeAll(context.Background())
	require.Equal(t, 0, m.failures[m.targets[0].Name], "counter resets after an attempted restart regardless of outcome")
	require.False(t, restartCalled, "no restart command configured, so the restart goes to the docker socket for the host-derived container, never to this server")
}

func TestMonitorStartStopIsCancellable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(config.HealthConfig{
		Enabled:         true,
		URLs:            []string{srv.URL},
		MaxFailures:     5,
		TimeoutSeconds:  1,
		IntervalSeconds: 1,
	})

	m.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	m.Stop()
}
