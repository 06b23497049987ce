// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A .env file next to the working directory, when present, is loaded first so local
// runs can keep secrets out of the YAML.
package config
