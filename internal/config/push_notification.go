package config

// PushConfig sends new-booking alerts to admin devices over FCM, which
// reuses the Firebase credentials. An empty topic disables it.
type PushConfig struct {
	Enabled    bool   `yaml:"enabled"`
	AdminTopic string `yaml:"admin_topic"`
}

func loadPushConfig() *PushConfig {
	return &PushConfig{
		Enabled:    getEnvAsBool("PUSH_ENABLED", true),
		AdminTopic: getEnv("FCM_ADMIN_TOPIC", "admin-bookings"),
	}
}
