package config

type MapsConfig struct {
	GoogleMaps *GoogleMapsConfig `yaml:"google_maps"`
}

type GoogleMapsConfig struct {
	APIKey string `yaml:"api_key"`
	// Region biases geocoding results, e.g. "in".
	Region string `yaml:"region"`
}

func (c *MapsConfig) Enabled() bool {
	return c.GoogleMaps.APIKey != ""
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		GoogleMaps: &GoogleMapsConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
			Region: getEnv("GOOGLE_MAPS_REGION", "in"),
		},
	}
}
