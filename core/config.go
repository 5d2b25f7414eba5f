package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Port               int
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Path string
	}

	MailConfig struct {
		Provider string // console (default) | sendgrid | gmail
	}

	GoogleConfig struct {
		ClientSecretFile string
		TokenFile        string
		DriveParentID    string
	}

	ReflectionConfig struct {
		TemplateName string
		HistoryLimit int
	}

	Config struct {
		Debug              bool
		TestMode           bool
		Env                string
		Build              string
		AppName            string
		SecretKey          string
		WorkDir            string
		DataDir            string
		DraftDir           string
		HistoryDir         string
		FrontendBaseURL    string
		DefaultFromName    string
		DefaultFromAddress string
		SendgridApiKey     string
		RollbarToken       string
		Server             ServerConfig
		Database           DatabaseConfig
		Mail               MailConfig
		Google             GoogleConfig
		Reflection         ReflectionConfig
	}
)

var Conf *Config

func init() {
	v := viper.New()

	wd := Getwd()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Hansei")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "h@nsei-dev-only-(set-me)-8gq2!mz7#pwx5&rc3")
	v.SetDefault("workDir", wd)
	v.SetDefault("dataDir", filepath.Join(wd, "data"))
	v.SetDefault("draftDir", filepath.Join(wd, "drafts"))
	v.SetDefault("historyDir", filepath.Join(wd, "history"))
	v.SetDefault("frontendBaseURL", "http://localhost:8000")
	v.SetDefault("defaultFromName", "Hansei")
	v.SetDefault("defaultFromAddress", "noreply@localhost")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("database.path", filepath.Join(wd, "app.db"))
	v.SetDefault("mail.provider", "console")
	v.SetDefault("google.clientSecretFile", filepath.Join(wd, "credentials", "oauth_client_secret.json"))
	v.SetDefault("google.tokenFile", filepath.Join(wd, "oauth_token.json"))
	v.SetDefault("google.driveParentID", "")
	v.SetDefault("reflection.templateName", "reflection_template.md")
	v.SetDefault("reflection.historyLimit", 20)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = new(Config)
	if err := v.Unmarshal(Conf); err != nil {
		log.Fatalf("config.viper.Unmarshal: %v", err)
	}
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddress}
}

func (sc ServerConfig) Address() string {
	return sc.Host + ":" + strconv.Itoa(sc.Port)
}
