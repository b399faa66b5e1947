package main

import (
	"flag"

	"farmbot-backend/lib/configutil"
	"farmbot-backend/lib/scrapers/farmrpg"
	"farmbot-backend/lib/serviceutil"
	"farmbot-backend/services/api"
	"farmbot-backend/services/farm"
	"farmbot-backend/services/fishingbot"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    int               `json:"port"`
	BaseUrl string            `json:"base_url"`
	Bot     fishingbot.Config `json:"bot"`
}

type Secrets struct {
	// session cookie string copied from a logged-in browser
	Cookie string `env:"FARMRPG_COOKIE,required"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	godotenv.Load()
	var secrets Secrets
	if err := env.Parse(&secrets); err != nil {
		serviceutil.Fatal("parse environment", err)
	}

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	client, err := farmrpg.NewClient(farmrpg.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Cookie:  secrets.Cookie,
	})
	if err != nil {
		serviceutil.Fatal("init farmrpg client", err)
	}

	farmService := farm.NewService(client)

	bot := fishingbot.NewService(ctx, farmService)
	botCfg := fishingbot.DefaultConfig()
	if err := mergo.Merge(&botCfg, cfg.Bot, mergo.WithOverride); err != nil {
		serviceutil.Fatal("merge bot config", err)
	}
	bot.SetConfig(botCfg)

	router := api.NewRouter(farmService, bot)

	go serviceutil.StartHttpServer(cfg.Port, router)
	<-ctx.Done()
	bot.Stop()
}
