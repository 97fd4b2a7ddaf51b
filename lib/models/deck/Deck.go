package deck

// Deck is the top-level collaborative document: an ordered list of
// slides plus the identity of the connection that claimed ownership.
// OwnerID is nil until the first connection wins the claim race.
type Deck struct {
	OwnerID *string `json:"ownerId"`
	Slides  []Slide `json:"slides"`
}

type Slide struct {
	ID      string   `json:"id"`
	Widgets []Widget `json:"widgets"`
}

// Widget is a positioned, resizable text element. A widget belongs to
// exactly one slide and is never shared across slides.
type Widget struct {
	ID        string      `json:"id"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Text      string      `json:"text"`
	TypoBlock TypoBlock   `json:"typoBlock"`
	Styles    []TypoStyle `json:"styles"`
	IsLink    bool        `json:"isLink"`
	LinkHref  string      `json:"linkHref"`
}

const (
	DefaultWidgetWidth  float64 = 250
	DefaultWidgetHeight float64 = 120
)

// NewWidget returns a widget with the default size and typography at
// the given position.
func NewWidget(id string, x, y float64) Widget {
	return Widget{
		ID:        id,
		X:         x,
		Y:         y,
		Width:     DefaultWidgetWidth,
		Height:    DefaultWidgetHeight,
		Text:      "",
		TypoBlock: BlockParagraph,
		Styles:    []TypoStyle{},
	}
}

func NewSlide(id string) Slide {
	return Slide{
		ID:      id,
		Widgets: []Widget{},
	}
}

// FindSlide returns the index of the slide with the given id, or -1.
func (d *Deck) FindSlide(slideID string) int {
	for i, s := range d.Slides {
		if s.ID == slideID {
			return i
		}
	}
	return -1
}

// FindWidget returns the index of the widget with the given id within
// the slide, or -1.
func (s *Slide) FindWidget(widgetID string) int {
	for i, w := range s.Widgets {
		if w.ID == widgetID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the deck. Snapshots handed out by the
// store must not alias the live document.
func (d *Deck) Clone() Deck {
	cloned := Deck{
		Slides: make([]Slide, len(d.Slides)),
	}
	if d.OwnerID != nil {
		owner := *d.OwnerID
		cloned.OwnerID = &owner
	}
	for i, s := range d.Slides {
		cloned.Slides[i] = s.Clone()
	}
	return cloned
}

func (s *Slide) Clone() Slide {
	cloned := Slide{
		ID:      s.ID,
		Widgets: make([]Widget, len(s.Widgets)),
	}
	for i, w := range s.Widgets {
		cloned.Widgets[i] = w.Clone()
	}
	return cloned
}

func (w *Widget) Clone() Widget {
	cloned := *w
	cloned.Styles = make([]TypoStyle, len(w.Styles))
	copy(cloned.Styles, w.Styles)
	return cloned
}
