// Package config loads the optional ns_config.yaml and supplies the run
// defaults. CLI flags take precedence; the file only moves the baseline.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Keys understood in ns_config.yaml.
const (
	KeyWorkers       = "workers"
	KeyTimeoutMS     = "timeout_ms"
	KeyDNSTimeoutMS  = "dns_timeout_ms"
	KeyIPv6SampleCap = "ipv6_sample_cap"
	KeyTargetFile    = "target_file"
)

// Init wires defaults and reads ns_config.yaml from the usual locations. A
// missing file is not an error: the defaults stand.
func Init() {
	viper.SetConfigName("ns_config")
	viper.SetConfigType("yaml")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" && homeDir != "" {
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}

	configPaths := []string{
		"/etc/nsweep",
		"/usr/local/etc/nsweep",
	}
	if runtime.GOOS == "darwin" {
		configPaths = append(configPaths, "/opt/homebrew/etc/nsweep")
	}
	if xdgConfigHome != "" {
		configPaths = append(configPaths, filepath.Join(xdgConfigHome, "nsweep"))
	}
	if homeDir != "" {
		configPaths = append(configPaths, filepath.Join(homeDir, ".nsweep"), homeDir)
	}
	configPaths = append(configPaths, ".")

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetDefault(KeyWorkers, 50)
	viper.SetDefault(KeyTimeoutMS, 1500)
	viper.SetDefault(KeyDNSTimeoutMS, 3000)
	viper.SetDefault(KeyIPv6SampleCap, 10)
	viper.SetDefault(KeyTargetFile, "ip.txt")

	_ = viper.ReadInConfig()
}

func Workers() int {
	return viper.GetInt(KeyWorkers)
}

func ProbeTimeout() time.Duration {
	return time.Duration(viper.GetInt(KeyTimeoutMS)) * time.Millisecond
}

func DNSTimeout() time.Duration {
	return time.Duration(viper.GetInt(KeyDNSTimeoutMS)) * time.Millisecond
}

func IPv6SampleCap() int {
	return viper.GetInt(KeyIPv6SampleCap)
}

func TargetFile() string {
	return viper.GetString(KeyTargetFile)
}
