package loader

import (
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "TEPL_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates an environment variable loader.
// The prefix should include the trailing underscore (e.g., "TEPL_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the short names of the common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":             "logging.level",
		prefix + "CANDIDATES":            "encoding.candidates",
		prefix + "MAX_OUTPUT_CHUNK_SIZE": "conversion.maxOutputChunkSize",
		prefix + "READ_CHUNK_SIZE":       "loader.readChunkSize",
		prefix + "MAX_FILE_SIZE":         "loader.maxFileSize",
		prefix + "REJECT_BINARY":         "loader.rejectBinary",
		prefix + "SNIFF":                 "detect.sniff",
		prefix + "SNIFF_LIMIT":           "detect.sniffLimit",
		prefix + "MIN_CONFIDENCE":        "detect.minConfidence",
	}
}

// Load reads environment variables and returns a configuration map.
// Mapped names win over the generic PREFIX_SECTION_SETTING_NAME form.
// Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	var mapped []string
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, ok := l.mapping[name]; ok {
			mapped = append(mapped, env)
			continue
		}
		setByPath(config, l.envToPath(name), parseValue(value))
	}

	for _, env := range mapped {
		name, value, _ := strings.Cut(env, "=")
		setByPath(config, l.mapping[name], parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts TEPL_DETECT_SNIFF_LIMIT to detect.sniffLimit.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// parseValue converts a string into a bool, int, float or JSON value where
// it parses as one.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
