package config

type Config struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	DatabaseURI    string `env:"DATABASE_URI"`
	NoticeEndpoint string `env:"NOTICE_ENDPOINT"`
	SecretKey      string `env:"SECRET_KEY"`
	LogLevel       string `env:"LOG_LEVEL"`
	ClientTimeout  int    `env:"CLIENT_TIMEOUT"`
}
