package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	api2 "github.com/slidedeck/slidedeck-go/lib/api"
	settings2 "github.com/slidedeck/slidedeck-go/lib/settings"
	"github.com/slidedeck/slidedeck-go/lib/store"
	"github.com/slidedeck/slidedeck-go/lib/utils"
	"github.com/slidedeck/slidedeck-go/lib/ws"
)

func main() {
	retrievedSettings, err := settings2.ReadConfig("")
	if err != nil {
		panic(err)
	}

	setupLogger := utils.SetupLogger(retrievedSettings.DevMode)
	defer setupLogger.Sync()
	validatorEvaluator := validator.New(validator.WithRequiredStructEnabled())

	setupLogger.Info("Starting " + retrievedSettings.Title + "...")

	snapshotStore, err := utils.GetDB(retrievedSettings, setupLogger)
	if err != nil {
		setupLogger.Fatal("Error connecting to database: " + err.Error())
		return
	}
	defer snapshotStore.Close()

	substrate := store.NewMemoryStore(snapshotStore, retrievedSettings.HistoryLimit, setupLogger)

	app := fiber.New(fiber.Config{
		AppName:                 retrievedSettings.Title,
		DisableStartupMessage:   true,
		EnableTrustedProxyCheck: retrievedSettings.TrustProxy,
	})

	hub := ws.NewHub()
	go hub.Run()

	deckMessageHandler := ws.NewDeckMessageHandler(hub, substrate, setupLogger)

	api2.InitAPI(app, retrievedSettings, snapshotStore, substrate, deckMessageHandler, validatorEvaluator, setupLogger)

	fiberString := fmt.Sprintf("%s:%s", retrievedSettings.IP, retrievedSettings.Port)
	setupLogger.Info("Listening on " + fiberString)
	err = app.Listen(fiberString)
	if err != nil {
		return
	}
}
