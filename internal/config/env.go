package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SANDBOX_"

// LoadDotEnv reads the given file (e.g. ".env") and sets environment variables for each line
// of the form KEY=VALUE. Variables already set in the environment win. Empty lines and lines
// starting with # are skipped. A missing file is not an error.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		_ = os.Setenv(key, value)
	}
	return scanner.Err()
}

func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	i := strings.Index(line, "=")
	if i <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	if key == "" {
		return "", "", false
	}
	if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"' || value[0] == '\'' && value[len(value)-1] == '\'') {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

// ApplyEnv overrides c from SANDBOX_* variables looked up with getenv (os.Getenv in
// production). Unset or empty variables leave the field alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v := getenv(EnvPrefix + name)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("ENGINE", &c.Engine)
	str("EXPORT_DIR", &c.Export.Dir)
	str("EXPORT_FORMAT", &c.Export.Format)
	str("LOG_FILE", &c.LogFile)
	if err := dur("DEBOUNCE", &c.Debounce); err != nil {
		return err
	}
	return dur("EXEC_TIMEOUT", &c.ExecTimeout)
}

// Resolve loads .env from dotenv, the YAML config from path, applies environment overrides and
// validates the result. An unreadable config file still yields defaults plus overrides, returned
// together with the load error.
func Resolve(path, dotenv string) (Config, error) {
	if err := LoadDotEnv(dotenv); err != nil {
		return Default(), err
	}
	c, loadErr := Load(path)
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, loadErr
}
