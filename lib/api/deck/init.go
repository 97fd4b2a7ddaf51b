package deck

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	apiError "github.com/slidedeck/slidedeck-go/lib/api/errors"
	"github.com/slidedeck/slidedeck-go/lib/invite"
	"github.com/slidedeck/slidedeck-go/lib/settings"
	"github.com/slidedeck/slidedeck-go/lib/store"
	"github.com/slidedeck/slidedeck-go/lib/utils"
	"github.com/slidedeck/slidedeck-go/lib/ws"
	"go.uber.org/zap"
)

type CreateDeckResponse struct {
	DeckID string `json:"deckId"`
	URL    string `json:"url"`
}

type InviteRequest struct {
	ConnectionID string `json:"connectionId" validate:"required"`
	Scope        string `json:"scope" validate:"required,oneof=all slides"`
	SlideNumbers []int  `json:"slideNumbers" validate:"required_if=Scope slides,dive,gte=1"`
}

type InviteResponse struct {
	Token   string `json:"token"`
	JoinURL string `json:"joinUrl"`
}

func Init(c *fiber.App, retrievedSettings *settings.Settings, substrate store.Substrate,
	handler *ws.DeckMessageHandler, validatorEvaluator *validator.Validate, logger *zap.SugaredLogger) {

	c.Post("/api/decks", func(ctx *fiber.Ctx) error {
		deckID := utils.NewDeckID()
		if _, err := handler.Editor().Bootstrap(deckID); err != nil {
			logger.Errorw("error creating deck", "deckId", deckID, "error", err)
			return ctx.Status(500).JSON(apiError.InternalServerError)
		}
		return ctx.Status(201).JSON(CreateDeckResponse{
			DeckID: deckID,
			URL:    invite.DeckLink(retrievedSettings.BaseURL, deckID, invite.GrantAll()),
		})
	})

	c.Get("/api/decks/:deckId", func(ctx *fiber.Ctx) error {
		snapshot, err := substrate.FetchSnapshot(ctx.Params("deckId"))
		if errors.Is(err, store.ErrDeckNotFound) {
			return ctx.Status(404).JSON(apiError.DeckNotFoundError)
		}
		if err != nil {
			return ctx.Status(500).JSON(apiError.InternalServerError)
		}
		return ctx.JSON(snapshot)
	})

	c.Post("/api/decks/:deckId/invite", func(ctx *fiber.Ctx) error {
		deckID := ctx.Params("deckId")

		var request InviteRequest
		if err := ctx.BodyParser(&request); err != nil {
			return ctx.Status(400).JSON(apiError.InvalidRequestError)
		}
		if err := validatorEvaluator.Struct(request); err != nil {
			return ctx.Status(422).JSON(apiError.ValidationError)
		}

		snapshot, err := substrate.FetchSnapshot(deckID)
		if errors.Is(err, store.ErrDeckNotFound) {
			return ctx.Status(404).JSON(apiError.DeckNotFoundError)
		}
		if err != nil {
			return ctx.Status(500).JSON(apiError.InternalServerError)
		}

		// Only the deck owner hands out invites.
		sess, ok := handler.Registry().Get(deckID, request.ConnectionID)
		if !ok || !handler.Editor().Security().CanInvite(sess) {
			return ctx.Status(403).JSON(apiError.ForbiddenError)
		}

		grant := invite.GrantAll()
		if request.Scope == "slides" {
			slideIDs := make([]string, 0, len(request.SlideNumbers))
			for _, number := range request.SlideNumbers {
				if number < 1 || number > len(snapshot.Slides) {
					return ctx.Status(400).JSON(apiError.NewInvalidParamError("slideNumbers"))
				}
				slideIDs = append(slideIDs, snapshot.Slides[number-1].ID)
			}
			grant = invite.GrantSlides(slideIDs...)
		}

		return ctx.JSON(InviteResponse{
			Token:   invite.Encode(grant),
			JoinURL: invite.JoinLink(retrievedSettings.BaseURL, deckID, grant),
		})
	})

	c.Get("/join/:deckId", func(ctx *fiber.Ctx) error {
		deckID := ctx.Params("deckId")
		if _, err := substrate.FetchSnapshot(deckID); err != nil {
			if errors.Is(err, store.ErrDeckNotFound) {
				return ctx.Status(404).JSON(apiError.DeckNotFoundError)
			}
			return ctx.Status(500).JSON(apiError.InternalServerError)
		}

		// The token is passed through untouched; the socket join decodes it.
		token := ctx.Query("permissibleSlides", "all")
		target := fmt.Sprintf("%s/deck/%s?permissibleSlides=%s",
			retrievedSettings.BaseURL, url.PathEscape(deckID), url.QueryEscape(token))
		return ctx.Redirect(target, fiber.StatusFound)
	})

	c.Get("/ws/:deckId", func(ctx *fiber.Ctx) error {
		deckID := ctx.Params("deckId")
		name := ctx.Query("name", "Anonymous")
		token := ctx.Query("permissibleSlides", "")
		return adaptor.HTTPHandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ws.ServeWs(writer, request, deckID, name, token, handler, logger)
		})(ctx)
	})
}
