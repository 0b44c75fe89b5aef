package config

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	DatabaseURL     string `yaml:"database_url"`
	CredentialsFile string `yaml:"credentials_file"`
	CredentialsJSON string `yaml:"credentials_json"`
}

// Enabled reports whether a realtime database is configured. Without one the
// server runs on an in-memory tree.
func (c *FirebaseConfig) Enabled() bool {
	return c.DatabaseURL != ""
}

func loadFirebaseConfig() *FirebaseConfig {
	return &FirebaseConfig{
		ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		DatabaseURL:     getEnv("FIREBASE_DATABASE_URL", ""),
		CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		CredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
	}
}
