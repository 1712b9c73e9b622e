package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/outlay-app/outlay/internal/apiclient"
	"github.com/outlay-app/outlay/internal/config"
	"github.com/outlay-app/outlay/internal/consumer"
	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/repository"
	"github.com/outlay-app/outlay/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}

	cfg := config.Config{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("%+v\n", err)
	}

	budget, err := model.ParseAmount(cfg.MonthlyBudget)
	if err != nil {
		logrus.Fatal(err)
	}

	api := apiclient.NewHTTP(cfg.API.BaseURL, cfg.API.Timeout)

	store, err := repository.NewSQLite(cfg.SessionDBPath)
	if err != nil {
		logrus.Fatal(err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logrus.Errorf("couldn't close session store: %v", closeErr)
		}
	}()

	session := service.NewSession(api, store)
	session.Restore(ctx)

	expenses := service.NewExpenses(api, cfg.CacheTTL)

	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		logrus.Fatal(err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = cfg.Telegram.Timeout
	updatesChan := bot.GetUpdatesChan(updateConfig)

	tgBot := consumer.NewBot(bot, updatesChan, validator.New(), session, expenses, budget)
	go tgBot.Consume(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit
	cancel()
	<-time.After(2 * time.Second)
}
