// Package config loads longbox configuration from YAML.
//
// Values of the form ${VAR} are expanded from the environment, and a .env
// file in the working directory is loaded first when present.
package config
