package deck

import (
	deckModel "github.com/slidedeck/slidedeck-go/lib/models/deck"
	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
	"github.com/slidedeck/slidedeck-go/lib/store"
	"github.com/slidedeck/slidedeck-go/lib/utils"
	"go.uber.org/zap"
)

// InsertPosition says on which side of the reference slide a new
// slide is inserted.
type InsertPosition string

const (
	InsertAbove InsertPosition = "above"
	InsertBelow InsertPosition = "below"
)

// WidgetPatch carries a partial widget update; only non-nil fields
// are merged into the stored widget.
type WidgetPatch struct {
	X         *float64               `json:"x"`
	Y         *float64               `json:"y"`
	Width     *float64               `json:"width"`
	Height    *float64               `json:"height"`
	Text      *string                `json:"text"`
	TypoBlock *deckModel.TypoBlock   `json:"typoBlock"`
	Styles    *[]deckModel.TypoStyle `json:"styles"`
	IsLink    *bool                  `json:"isLink"`
	LinkHref  *string                `json:"linkHref"`
}

// Editor is the mutation protocol: every operation reads the latest
// snapshot, computes a replacement for exactly one subtree, checks the
// session's permission and writes the subtree back transactionally.
// Denied and mistargeted operations are silently absorbed, since the
// UI hides the affordance up front; only substrate faults surface.
type Editor struct {
	store    store.Substrate
	security SecurityManager
	logger   *zap.SugaredLogger
}

func NewEditor(substrate store.Substrate, logger *zap.SugaredLogger) Editor {
	return Editor{
		store:    substrate,
		security: NewSecurityManager(),
		logger:   logger,
	}
}

func (e Editor) Security() SecurityManager {
	return e.security
}

// Bootstrap makes sure the deck exists and has at least one slide.
// Called when the first connection joins a fresh deck.
func (e Editor) Bootstrap(deckID string) (*deckModel.Deck, error) {
	snapshot, err := e.store.EnsureDeck(deckID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Slides) > 0 {
		return snapshot, nil
	}

	slides := []deckModel.Slide{deckModel.NewSlide(utils.NewSlideID())}
	if err := e.store.ReplaceSlides(deckID, slides); err != nil {
		return nil, err
	}
	return e.store.FetchSnapshot(deckID)
}

// AddSlide inserts a fresh empty slide above or below the reference
// slide. When the reference is not found the insertion point falls
// back to the deck boundary on that side.
func (e Editor) AddSlide(sess session2.Session, deckID string, position InsertPosition, referenceSlideID string) error {
	snapshot, err := e.store.FetchSnapshot(deckID)
	if err != nil {
		return err
	}

	if !e.security.CanEditDeck(sess) {
		e.logger.Debugw("add slide denied", "deckId", deckID, "role", sess.Role)
		return nil
	}

	newSlide := deckModel.NewSlide(utils.NewSlideID())
	refIndex := snapshot.FindSlide(referenceSlideID)

	var insertAt int
	switch position {
	case InsertAbove:
		if refIndex < 0 {
			insertAt = 0
		} else {
			insertAt = refIndex
		}
	default:
		if refIndex < 0 {
			insertAt = len(snapshot.Slides)
		} else {
			insertAt = refIndex + 1
		}
	}

	slides := make([]deckModel.Slide, 0, len(snapshot.Slides)+1)
	slides = append(slides, snapshot.Slides[:insertAt]...)
	slides = append(slides, newSlide)
	slides = append(slides, snapshot.Slides[insertAt:]...)

	return e.store.ReplaceSlides(deckID, slides)
}

// DeleteSlide removes the slide. Deleting the last slide synthesizes
// a fresh empty replacement so the deck is never empty.
func (e Editor) DeleteSlide(sess session2.Session, deckID string, slideID string) error {
	snapshot, err := e.store.FetchSnapshot(deckID)
	if err != nil {
		return err
	}

	if !e.security.CanEditDeck(sess) {
		e.logger.Debugw("delete slide denied", "deckId", deckID, "role", sess.Role)
		return nil
	}

	if snapshot.FindSlide(slideID) < 0 {
		return nil
	}

	slides := make([]deckModel.Slide, 0, len(snapshot.Slides))
	for _, s := range snapshot.Slides {
		if s.ID != slideID {
			slides = append(slides, s)
		}
	}
	if len(slides) == 0 {
		slides = append(slides, deckModel.NewSlide(utils.NewSlideID()))
	}

	return e.store.ReplaceSlides(deckID, slides)
}

// AddWidget creates a widget with a generated id, default size and
// default typography at the given position. Returns the created
// widget, or nil when the operation was absorbed.
func (e Editor) AddWidget(sess session2.Session, deckID string, slideID string, x, y float64) (*deckModel.Widget, error) {
	snapshot, err := e.store.FetchSnapshot(deckID)
	if err != nil {
		return nil, err
	}

	if !e.security.CanEditSlide(sess, slideID) {
		e.logger.Debugw("add widget denied", "deckId", deckID, "slideId", slideID)
		return nil, nil
	}

	idx := snapshot.FindSlide(slideID)
	if idx < 0 {
		return nil, nil
	}

	widget := deckModel.NewWidget(utils.NewWidgetID(), x, y)
	widgets := append(cloneWidgetList(snapshot.Slides[idx].Widgets), widget)

	if err := e.store.ReplaceWidgets(deckID, slideID, widgets); err != nil {
		return nil, err
	}
	return &widget, nil
}

// DeleteWidget removes the widget by id; already-absent widgets make
// this an idempotent no-op.
func (e Editor) DeleteWidget(sess session2.Session, deckID string, slideID string, widgetID string) error {
	snapshot, err := e.store.FetchSnapshot(deckID)
	if err != nil {
		return err
	}

	if !e.security.CanEditSlide(sess, slideID) {
		e.logger.Debugw("delete widget denied", "deckId", deckID, "slideId", slideID)
		return nil
	}

	idx := snapshot.FindSlide(slideID)
	if idx < 0 {
		return nil
	}
	slide := snapshot.Slides[idx]
	if slide.FindWidget(widgetID) < 0 {
		return nil
	}

	widgets := make([]deckModel.Widget, 0, len(slide.Widgets))
	for _, w := range slide.Widgets {
		if w.ID != widgetID {
			widgets = append(widgets, w)
		}
	}

	return e.store.ReplaceWidgets(deckID, slideID, widgets)
}

// UpdateWidget merges the supplied patch fields into the widget,
// leaving all other fields untouched.
func (e Editor) UpdateWidget(sess session2.Session, deckID string, slideID string, widgetID string, update WidgetPatch) error {
	snapshot, err := e.store.FetchSnapshot(deckID)
	if err != nil {
		return err
	}

	if !e.security.CanEditSlide(sess, slideID) {
		e.logger.Debugw("update widget denied", "deckId", deckID, "slideId", slideID)
		return nil
	}

	slideIdx := snapshot.FindSlide(slideID)
	if slideIdx < 0 {
		return nil
	}
	slide := snapshot.Slides[slideIdx]
	widgetIdx := slide.FindWidget(widgetID)
	if widgetIdx < 0 {
		return nil
	}

	widgets := cloneWidgetList(slide.Widgets)
	merged := mergeWidget(widgets[widgetIdx], update)
	widgets[widgetIdx] = merged

	return e.store.ReplaceWidgets(deckID, slideID, widgets)
}

// ClaimOwnership races to set the deck owner; the first connection to
// observe an unset owner wins and an already-set owner is never
// overridden. Losing the race is not an error.
func (e Editor) ClaimOwnership(deckID string, connectionID string) (bool, error) {
	return e.store.ClaimOwner(deckID, connectionID)
}

func mergeWidget(w deckModel.Widget, update WidgetPatch) deckModel.Widget {
	if update.X != nil {
		w.X = *update.X
	}
	if update.Y != nil {
		w.Y = *update.Y
	}
	if update.Width != nil {
		w.Width = *update.Width
	}
	if update.Height != nil {
		w.Height = *update.Height
	}
	if update.Text != nil {
		w.Text = *update.Text
	}
	if update.TypoBlock != nil && update.TypoBlock.Valid() {
		w.TypoBlock = *update.TypoBlock
	}
	if update.Styles != nil {
		w.Styles = deckModel.NormalizeStyles(*update.Styles)
	}
	if update.IsLink != nil {
		w.IsLink = *update.IsLink
	}
	if update.LinkHref != nil {
		w.LinkHref = *update.LinkHref
	}
	return w
}

func cloneWidgetList(widgets []deckModel.Widget) []deckModel.Widget {
	cloned := make([]deckModel.Widget, len(widgets))
	for i, w := range widgets {
		cloned[i] = w.Clone()
	}
	return cloned
}
