package config

import "strings"

// normalize expands paths and trims string fields in place.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	c.Server.SessionSecret = strings.TrimSpace(c.Server.SessionSecret)
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	for i, origin := range c.Server.CORSOrigins {
		c.Server.CORSOrigins[i] = strings.TrimSpace(origin)
	}
	if c.Server.SessionTTLHours <= 0 {
		c.Server.SessionTTLHours = defaultSessionTTLHours
	}
	if c.Server.LoginRatePerMin <= 0 {
		c.Server.LoginRatePerMin = defaultLoginRatePerMin
	}

	c.Bootstrap.OwnerName = strings.TrimSpace(c.Bootstrap.OwnerName)
	c.Bootstrap.OwnerEmail = strings.ToLower(strings.TrimSpace(c.Bootstrap.OwnerEmail))

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
