package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Extras:         []string{"whitespace", "comments"},
		LenientHeaders: BoolPtr(false),
		Output:         "console",
		NoColor:        BoolPtr(false),
		Verbose:        BoolPtr(false),
		Extensions:     []string{".http", ".rest"},
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return equalStrings(c.Extras, defaults.Extras) &&
		c.GetLenientHeaders() == defaults.GetLenientHeaders() &&
		c.Output == defaults.Output &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		equalStrings(c.Extensions, defaults.Extensions)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
