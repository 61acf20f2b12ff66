package config

import "os"

// Sources names where settings come from besides the defaults.
type Sources struct {
	// ConfigFile is an optional YAML or JSON settings file.
	ConfigFile string
	// EnvFile is an optional dotenv file; ".env" is tried when empty.
	EnvFile string
	// Lookup reads environment variables; os.LookupEnv when nil.
	Lookup LookupFunc
}

// Resolve layers the defaults, the dotenv file, the settings file and the
// environment, in that order. Command-line flags are applied by the caller
// afterwards, followed by Validate.
func Resolve(sources Sources) (Settings, error) {
	settings := Default()

	if err := LoadEnvFile(sources.EnvFile); err != nil {
		return settings, err
	}

	lookup := sources.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var problems ValidationErrors

	if sources.ConfigFile != "" {
		file, err := LoadFile(sources.ConfigFile)
		if err != nil {
			return settings, err
		}
		problems = append(problems, settings.Apply(file, Environ())...)
	}

	problems = append(problems, settings.ApplyEnvironment(lookup)...)

	if len(problems) > 0 {
		return settings, problems
	}
	return settings, nil
}
