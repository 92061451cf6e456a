package config

import (
	"os"
	"path"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	// Token is an optional bootstrap token for the remote session; empty
	// means an anonymous session.
	Token string `yaml:"token" json:"token"`
	Debug bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

// DBConfig describes the remote document store. An empty Host means the
// store is unconfigured and the service runs in local-only mode.
type DBConfig struct {
	Type   string `yaml:"type" json:"type"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

// AdminConfig is the demo-grade admin gate: a static credential pair
// compared verbatim. Not a security boundary.
type AdminConfig struct {
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"password"`
}

// AssistantConfig points at the generative content collaborator. An empty
// ApiKey disables generation.
type AssistantConfig struct {
	ApiUrl string `yaml:"api_url" json:"api_url"`
	ApiKey string `yaml:"api_key" json:"api_key"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system" json:"system"`
	Web       WebConfig       `yaml:"web" json:"web"`
	Database  DBConfig        `yaml:"database" json:"database"`
	Admin     AdminConfig     `yaml:"admin" json:"admin"`
	Assistant AssistantConfig `yaml:"assistant" json:"assistant"`
	Logger    LoggerConfig    `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

// RemoteEnabled reports whether a remote document store is configured.
func (c *AppConfig) RemoteEnabled() bool {
	return c.Database.Host != ""
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ClickHouse",
		Location: "Europe/Warsaw",
		Workdir:  "/var/clickhouse",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:   "postgres",
		Host:   "",
		Port:   5432,
		Name:   "clickhouse",
		User:   "postgres",
		Passwd: "",
		Debug:  false,
	},
	Admin: AdminConfig{
		Email:    "admin@demo.com",
		Password: "admin",
	},
	Assistant: AssistantConfig{},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/clickhouse/clickhouse.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(cast.ToInt(evalue))
	}
}

// LoadConfig reads a YAML config file over the defaults and then applies
// CLICKHOUSE_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	// with yaml config
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("CLICKHOUSE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("CLICKHOUSE_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvValue("CLICKHOUSE_SYSTEM_TOKEN", func(v string) { cfg.System.Token = v })
	setEnvBoolValue("CLICKHOUSE_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("CLICKHOUSE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("CLICKHOUSE_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvIntValue("CLICKHOUSE_WEB_PORT", func(v int) { cfg.Web.Port = v })

	setEnvValue("CLICKHOUSE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("CLICKHOUSE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("CLICKHOUSE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("CLICKHOUSE_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvIntValue("CLICKHOUSE_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvBoolValue("CLICKHOUSE_DB_DEBUG", func(v bool) { cfg.Database.Debug = v })

	setEnvValue("CLICKHOUSE_ADMIN_EMAIL", func(v string) { cfg.Admin.Email = v })
	setEnvValue("CLICKHOUSE_ADMIN_PASSWORD", func(v string) { cfg.Admin.Password = v })

	setEnvValue("CLICKHOUSE_ASSISTANT_API_URL", func(v string) { cfg.Assistant.ApiUrl = v })
	setEnvValue("CLICKHOUSE_ASSISTANT_API_KEY", func(v string) { cfg.Assistant.ApiKey = v })

	setEnvValue("CLICKHOUSE_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("CLICKHOUSE_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })

	return cfg
}
