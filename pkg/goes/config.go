// Package goes implements the NOAA STAR CDN imagery client. The client is
// only ever driven from inside the fetch child process; see pkg/fetch for
// why it is kept out of the long-lived pipeline process.
package goes

import (
	"errors"
	"fmt"
	"time"
)

// Static errors for configuration validation
var (
	ErrUnknownSatellite = errors.New("satellite must be \"east\" or \"west\"")
	ErrUnknownDomain    = errors.New("unknown spatial domain code")
)

// domainPaths maps spatial domain codes to CDN path segments.
var domainPaths = map[string]string{
	"F":  "FD",
	"C":  "CONUS",
	"M1": "MESO1",
	"M2": "MESO2",
}

// Config holds imagery source settings. Tags carry both yaml (config file)
// and json (fetch child handoff) names.
type Config struct {
	BaseURL   string        `yaml:"baseURL" json:"base_url" default:"https://cdn.star.nesdis.noaa.gov"`
	Satellite string        `yaml:"satellite" json:"satellite" default:"east"`
	Domain    string        `yaml:"domain" json:"domain" default:"F"`
	ImageSize string        `yaml:"imageSize" json:"image_size" default:"1808x1808"`
	Tolerance time.Duration `yaml:"tolerance" json:"tolerance" default:"30m"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" default:"2m"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := SatelliteNumber(c.Satellite); err != nil {
		return err
	}

	if _, ok := domainPaths[c.Domain]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDomain, c.Domain)
	}

	return nil
}

// SatelliteNumber maps the satellite name to its GOES number.
func SatelliteNumber(name string) (int, error) {
	switch name {
	case "east":
		return 16, nil
	case "west":
		return 17, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSatellite, name)
	}
}
