package deck

// TypoBlock is the block kind of a widget's text.
type TypoBlock string

const (
	BlockHeading1  TypoBlock = "h1"
	BlockHeading2  TypoBlock = "h2"
	BlockHeading3  TypoBlock = "h3"
	BlockHeading4  TypoBlock = "h4"
	BlockParagraph TypoBlock = "p"
)

func (b TypoBlock) Valid() bool {
	switch b {
	case BlockHeading1, BlockHeading2, BlockHeading3, BlockHeading4, BlockParagraph:
		return true
	}
	return false
}

// TypoStyle is a toggleable inline style flag. The style set of a
// widget is order-independent and holds each flag at most once.
type TypoStyle string

const (
	StyleBold          TypoStyle = "b"
	StyleItalic        TypoStyle = "i"
	StyleUnderline     TypoStyle = "u"
	StyleStrikethrough TypoStyle = "s"
)

func (s TypoStyle) Valid() bool {
	switch s {
	case StyleBold, StyleItalic, StyleUnderline, StyleStrikethrough:
		return true
	}
	return false
}

// NormalizeStyles drops unknown flags and duplicates while keeping the
// first occurrence order.
func NormalizeStyles(styles []TypoStyle) []TypoStyle {
	seen := make(map[TypoStyle]struct{}, len(styles))
	normalized := make([]TypoStyle, 0, len(styles))
	for _, s := range styles {
		if !s.Valid() {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		normalized = append(normalized, s)
	}
	return normalized
}
