package loader

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML decodes .yaml and .yml files. Integers decode as int.
var YAML = Format{
	Name:       "yaml",
	Extensions: []string{".yaml", ".yml"},
	Decode: func(data []byte) (map[string]any, error) {
		var config map[string]any
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
		return config, nil
	},
	Position: func(err error) (int, int) {
		return yamlErrorLine(err), 0
	},
}

// yamlErrorLine extracts N from yaml's "yaml: line N: ..." messages.
func yamlErrorLine(err error) int {
	rest, ok := strings.CutPrefix(err.Error(), "yaml: line ")
	if !ok {
		return 0
	}
	num, _, _ := strings.Cut(rest, ":")
	n, _ := strconv.Atoi(num)
	return n
}
