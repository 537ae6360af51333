// Package config loads tepl settings.
//
// Settings are layered with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command line flags      │  ← applied by the caller
//	├─────────────────────────────┤
//	│  3. TEPL_* environment      │
//	├─────────────────────────────┤
//	│  2. Config file (TOML/YAML) │
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │
//	└─────────────────────────────┘
//
// Example config.toml:
//
//	[encoding]
//	candidates = ["UTF-8", "CURRENT", "ISO-8859-15", "UTF-16"]
//
//	[detect]
//	sniff = true
//	minConfidence = 30
//
//	[logging]
//	level = "info"
package config
