package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/slidedeck/slidedeck-go/lib/api/deck"
	"github.com/slidedeck/slidedeck-go/lib/api/stats"
	"github.com/slidedeck/slidedeck-go/lib/db"
	"github.com/slidedeck/slidedeck-go/lib/settings"
	"github.com/slidedeck/slidedeck-go/lib/store"
	"github.com/slidedeck/slidedeck-go/lib/ws"
	"go.uber.org/zap"
)

func InitAPI(c *fiber.App, retrievedSettings *settings.Settings, snapshotStore db.SnapshotStore,
	substrate store.Substrate, handler *ws.DeckMessageHandler,
	validatorEvaluator *validator.Validate, logger *zap.SugaredLogger) {
	deck.Init(c, retrievedSettings, substrate, handler, validatorEvaluator, logger)
	stats.Init(c, retrievedSettings, snapshotStore, handler.Registry())
}
