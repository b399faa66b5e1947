package commands

import (
	"context"
	"fmt"
	"os"

	"farmbot-backend/lib/configutil"
	"farmbot-backend/lib/scrapers/farmrpg"
	"farmbot-backend/lib/serviceutil"
	"farmbot-backend/services/farm"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fishbot-cli",
	Short: "fishbot-cli runs the fishing loop directly against the game, without the API server.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	BaseUrl string `json:"base_url"`
	Cookie  string `json:"cookie"`
}

func createService() *farm.Service {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Cookie == "" {
		cfg.Cookie = os.Getenv("FARMRPG_COOKIE")
	}
	if cfg.Cookie == "" {
		serviceutil.Fatal("load credentials",
			fmt.Errorf("no cookie in config.json5 and FARMRPG_COOKIE is unset"))
	}

	client, err := farmrpg.NewClient(farmrpg.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Cookie:  cfg.Cookie,
	})
	if err != nil {
		serviceutil.Fatal("init farmrpg client", err)
	}
	return farm.NewService(client)
}
