package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                        bool   `envconfig:"debug"`
	Port                         int    `envconfig:"port"`
	PostgresHost                 string `envconfig:"postgres_host"`
	PostgresUser                 string `envconfig:"postgres_user"`
	PostgresDB                   string `envconfig:"postgres_db"`
	PostgresPort                 int    `envconfig:"postgres_port"`
	PostgresPassword             string `envconfig:"postgres_password"`
	MailgunApiKey                string `envconfig:"mg_public_api_key"`
	MgDomain                     string `envconfig:"mg_domain"`
	MgEmailFrom                  string `envconfig:"email_from"`
	BaseUrl                      string `envconfig:"base_url"`
	Env                          string `envconfig:"env"`
	Host                         string `envconfig:"host"`
	JWTSecret                    string `envconfig:"jwt_secret"`
	GoogleClientID               string `envconfig:"google_client_id"`
	GoogleClientSecret           string `envconfig:"google_client_secret"`
	GoogleRedirectURL            string `envconfig:"google_redirect_url"`
	GoogleApplicationCredentials string `envconfig:"google_application_credentials"`
	ImgbbApiKey                  string `envconfig:"imgbb_api_key"`
	MediaBackend                 string `envconfig:"media_backend"`
	AwsBucket                    string `envconfig:"aws_bucket"`
	AwsRegion                    string `envconfig:"aws_region"`
	OTPExpirySeconds             int    `envconfig:"otp_expiry_seconds"`
	AccessControlAllowOrigin     string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("freelancenest", c)
	if err != nil {
		return nil, err
	}
	if c.OTPExpirySeconds == 0 {
		c.OTPExpirySeconds = 600 // codes are valid for ten minutes
	}
	if c.MediaBackend == "" {
		c.MediaBackend = "imgbb"
	}
	return c, nil
}
