package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreMongo  = "mongo"
	StoreSqlite = "sqlite"
)

type Config struct {
	Env  string `yaml:"env" env-default:"local"`
	Line struct {
		AccessToken   string        `yaml:"access_token" env:"LINE_ACCESS_TOKEN" env-default:""`
		ChannelSecret string        `yaml:"channel_secret" env:"LINE_CHANNEL_SECRET" env-default:""`
		HttpTimeout   time.Duration `yaml:"http_timeout" env-default:"30s"`
		DedupeEvents  bool          `yaml:"dedupe_events" env-default:"false"`
		DedupeSize    int           `yaml:"dedupe_size" env-default:"1024"`
	} `yaml:"line"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"LineBridgeBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Hub struct {
		Enabled bool          `yaml:"enabled" env-default:"false"`
		Url     string        `yaml:"url" env-default:"http://homeassistant.local:8123"`
		Token   string        `yaml:"token" env:"HUB_TOKEN" env-default:""`
		Timeout time.Duration `yaml:"timeout" env-default:"10s"`
	} `yaml:"hub"`
	Store struct {
		Driver     string `yaml:"driver" env-default:"sqlite"`
		SqlitePath string `yaml:"sqlite_path" env-default:"linebridge.db"`
	} `yaml:"store"`
	Mongo struct {
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:"linebridge"`
	} `yaml:"mongo"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"8123"`
		ApiKey string `yaml:"key" env:"LISTEN_KEY" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
