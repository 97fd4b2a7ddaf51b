package settings

// Version reported by the health endpoint.
const Version = "0.1.0"

type DBSettings struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Filename string
}

type WidgetDefaults struct {
	Width  float64
	Height float64
}

type Settings struct {
	Title    string
	IP       string
	Port     string
	BaseURL  string
	LogLevel string
	DevMode  bool

	DBType     DBType
	DBSettings DBSettings

	// HistoryLimit caps the per-deck undo stack; the oldest entries
	// are discarded once it is exceeded.
	HistoryLimit int

	Widget WidgetDefaults

	EnableMetrics bool
	TrustProxy    bool
}
