package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func isLegacy(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".conf", ".txt":
		return true
	}
	return false
}

type legacyConfig struct {
	interval    int
	hasInterval bool
	whitelist   []string
}

// parseLegacy reads the original text format:
//
//	# comment
//	interval: 60
//	whitelist: com.a, com.b:*
//	  com.c
//
// Lines following "whitelist:" continue the list until another key.
func parseLegacy(r io.Reader) (*legacyConfig, error) {
	cfg := &legacyConfig{}
	inWhitelist := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "interval:"):
			inWhitelist = false
			val := strings.TrimSpace(strings.TrimPrefix(line, "interval:"))
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				continue
			}
			cfg.interval = n
			cfg.hasInterval = true
		case strings.HasPrefix(line, "whitelist:"):
			inWhitelist = true
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "whitelist:")); rest != "" {
				cfg.whitelist = append(cfg.whitelist, rest)
			}
		case inWhitelist:
			cfg.whitelist = append(cfg.whitelist, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading legacy config: %w", err)
	}
	return cfg, nil
}

func loadLegacy(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	legacy, err := parseLegacy(f)
	if err != nil {
		return err
	}
	if legacy.hasInterval {
		v.Set("monitoring.suppress_interval", time.Duration(legacy.interval)*time.Second)
	}
	if len(legacy.whitelist) > 0 {
		v.Set("safety.whitelist", legacy.whitelist)
	}
	return nil
}
