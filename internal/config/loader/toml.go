package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOML decodes .toml files. Integers decode as int64.
var TOML = Format{
	Name:       "toml",
	Extensions: []string{".toml"},
	Decode: func(data []byte) (map[string]any, error) {
		var config map[string]any
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
		return config, nil
	},
	Position: func(err error) (int, int) {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return derr.Position()
		}
		return 0, 0
	},
}
