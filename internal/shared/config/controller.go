package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
)

const (
	LauncherMPI  = "mpi"
	LauncherExec = "exec"
)

// UniverseSizeEnv is set by Open MPI's launcher to the total slot count.
const UniverseSizeEnv = "OMPI_UNIVERSE_SIZE"

// ControllerConfig contains all configuration for the controller service.
type ControllerConfig struct {
	REST     RESTConfig     `mapstructure:"rest"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Cluster  ClusterConfig  `mapstructure:"cluster"`
	Launcher LauncherConfig `mapstructure:"launcher"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RESTConfig contains REST API server configuration.
type RESTConfig struct {
	Addr string `mapstructure:"addr"`
	// AdvertiseAddr is the host:port or URL spawned hosts call back on.
	// Empty means this machine's hostname and the port of Addr.
	AdvertiseAddr string        `mapstructure:"advertise_addr"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
}

// GRPCConfig contains gRPC server configuration.
type GRPCConfig struct {
	Addr             string        `mapstructure:"addr"`
	Enabled          bool          `mapstructure:"enabled"`
	KeepaliveMinTime time.Duration `mapstructure:"keepalive_min_time"`
}

// ClusterConfig describes the slot pool.
type ClusterConfig struct {
	// UniverseSize counts every rank, the controller's own included. Zero
	// means ask the runtime.
	UniverseSize    int      `mapstructure:"universe_size"`
	ModuleAllowlist []string `mapstructure:"module_allowlist"`
}

// LauncherConfig selects how job processes are started.
type LauncherConfig struct {
	Type           string   `mapstructure:"type"`
	HostExecutable string   `mapstructure:"host_executable"`
	ExecPrefix     []string `mapstructure:"exec_prefix"`
}

// LoadController loads the controller configuration from the given path.
// If configPath is empty, it looks for controller.yaml in the config/ directory.
// Environment variables with WASIMPI_CONTROLLER_ prefix override config file values.
func LoadController(configPath string) (*ControllerConfig, error) {
	v := viper.New()

	v.SetDefault("rest.addr", ":8080")
	v.SetDefault("rest.advertise_addr", "")
	v.SetDefault("rest.read_timeout", 15*time.Second)
	v.SetDefault("rest.write_timeout", 15*time.Second)
	v.SetDefault("rest.idle_timeout", 60*time.Second)
	v.SetDefault("grpc.addr", ":9090")
	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.keepalive_min_time", 30*time.Second)
	v.SetDefault("cluster.universe_size", 0)
	v.SetDefault("cluster.module_allowlist", []string{})
	v.SetDefault("launcher.type", LauncherMPI)
	v.SetDefault("launcher.host_executable", "mpihost")
	v.SetDefault("launcher.exec_prefix", []string{"mpirun"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	var cfg ControllerConfig
	if err := load(v, "controller", configPath, "WASIMPI_CONTROLLER", &cfg); err != nil {
		return nil, err
	}

	if cfg.Cluster.UniverseSize == 0 {
		if raw, ok := os.LookupEnv(UniverseSizeEnv); ok {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", UniverseSizeEnv, raw, err)
			}
			cfg.Cluster.UniverseSize = n
		}
	}

	return &cfg, nil
}

func (c *ControllerConfig) Validate() error {
	if c.REST.Addr == "" {
		return errors.New("rest.addr is required")
	}
	if c.GRPC.Enabled && c.GRPC.Addr == "" {
		return errors.New("grpc.addr is required when grpc is enabled")
	}
	if c.Cluster.UniverseSize < 0 {
		return fmt.Errorf("cluster.universe_size must not be negative, got %d", c.Cluster.UniverseSize)
	}
	if err := core.ValidatePatterns(c.Cluster.ModuleAllowlist); err != nil {
		return fmt.Errorf("cluster.module_allowlist: %w", err)
	}
	switch c.Launcher.Type {
	case LauncherMPI:
	case LauncherExec:
		if len(c.Launcher.ExecPrefix) == 0 {
			return errors.New("launcher.exec_prefix is required for the exec launcher")
		}
	default:
		return fmt.Errorf("unknown launcher.type %q", c.Launcher.Type)
	}
	if c.Launcher.HostExecutable == "" {
		return errors.New("launcher.host_executable is required")
	}
	return c.Logging.Validate()
}

// CallbackBase is the URL prefix job callbacks are addressed to.
func (c RESTConfig) CallbackBase(hostname string) (string, error) {
	if adv := strings.TrimSpace(c.AdvertiseAddr); adv != "" {
		if strings.Contains(adv, "://") {
			return strings.TrimRight(adv, "/"), nil
		}
		return "http://" + adv, nil
	}

	_, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return "", fmt.Errorf("rest.addr %q: %w", c.Addr, err)
	}
	return "http://" + net.JoinHostPort(hostname, port), nil
}
