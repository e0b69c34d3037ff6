// Package config manages user-level settings stored at ~/.m460/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the root directory that holds installed platform packages.
package config
