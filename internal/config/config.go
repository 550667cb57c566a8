package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del front-end.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	RAGAPIBaseURL string `env:"RAG_API_BASE_URL" envDefault:"http://localhost:8000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
