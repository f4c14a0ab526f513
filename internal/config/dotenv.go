package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DotEnvPath returns the absolute path to the dotenv file (~/.codesearch/.env).
func DotEnvPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv reads ~/.codesearch/.env and returns key/value pairs.
// A missing file yields an empty map.
func LoadDotEnv() (map[string]string, error) {
	p, err := DotEnvPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot open dotenv file %s: %w", p, err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if k, v, ok := parseDotEnvLine(scanner.Text()); ok {
			out[k] = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	return out, nil
}

// parseDotEnvLine accepts the shell-compatible forms
//
//	KEY=value
//	export KEY=value
//	KEY="value with \"escapes\""
//	KEY='literal value'
//
// so the same file can be sourced by a shell. Comments and blank lines
// report ok=false.
func parseDotEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	k, v, found := strings.Cut(line, "=")
	k = strings.TrimSpace(k)
	if !found || k == "" {
		return "", "", false
	}
	return k, unquote(v), true
}

func unquote(v string) string {
	t := strings.TrimSpace(v)
	if len(t) < 2 {
		return v
	}
	switch {
	case t[0] == '"' && t[len(t)-1] == '"':
		if u, err := strconv.Unquote(t); err == nil {
			return u
		}
		return t[1 : len(t)-1]
	case t[0] == '\'' && t[len(t)-1] == '\'':
		return t[1 : len(t)-1]
	}
	return v
}

// GetConfigValue returns the effective value for key, using process environment variables
// first and falling back to ~/.codesearch/.env.
func GetConfigValue(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	dotenv, err := LoadDotEnv()
	if err != nil {
		return "", err
	}
	return dotenv[key], nil
}
