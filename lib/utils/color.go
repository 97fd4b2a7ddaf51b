package utils

// Colors is the palette remote cursors are drawn with.
var Colors = []string{"#f97316", "#3b82f6", "#22c55e", "#ec4899"}

// PickColor derives a stable display color from a display name by
// summing its code points. An empty name gets the first color.
func PickColor(name string) string {
	if name == "" {
		return Colors[0]
	}
	code := 0
	for _, r := range name {
		code += int(r)
	}
	return Colors[code%len(Colors)]
}
