package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings that are safe to share with tests and tooling.
type Public struct {
	Port                    int           `yaml:"port"`
	LogLevel                string        `yaml:"log_level"`
	LogJSON                 bool          `yaml:"log_json"`
	AllowedOrigins          []string      `yaml:"allowed_origins"`
	JwtTTL                  time.Duration `yaml:"jwt_ttl"`
	FeedPageLimit           int           `yaml:"feed_page_limit"`            // max posts returned by the feed
	MaxPostImages           int           `yaml:"max_post_images"`            // images allowed per post
	StoryTTL                time.Duration `yaml:"story_ttl"`                  // stories older than this are reaped
	StoryReapInterval       time.Duration `yaml:"story_reap_interval"`        // how often the reaper runs
	UnseenNotifyInterval    time.Duration `yaml:"unseen_notify_interval"`     // how often unseen-message emails go out
	ConnectionRequestLimit  int           `yaml:"connection_request_limit"`   // max requests per window
	ConnectionRequestWindow time.Duration `yaml:"connection_request_window"`  // sliding window for the limit
	SecureCookies           bool          `yaml:"secure_cookies"`
}

type Private struct {
	Pg            Pg       `yaml:"pg"`
	JwtKey        string   `yaml:"jwt_key"`
	WebhookSecret string   `yaml:"webhook_secret"`
	Email         Email    `yaml:"email"`
	ImageKit      ImageKit `yaml:"imagekit"`
	Redis         Redis    `yaml:"redis"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	AppURL     string `yaml:"app_url"` // linked from notification emails
}

type ImageKit struct {
	UploadURL   string `yaml:"upload_url"`
	URLEndpoint string `yaml:"url_endpoint"`
	PrivateKey  string `yaml:"private_key"`
}

// Redis is optional; when Addr is empty the delivery relay is disabled and
// message fan-out stays process-local.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
