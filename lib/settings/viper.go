package settings

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	Title         = "title"
	IP            = "ip"
	Port          = "port"
	BaseURL       = "baseUrl"
	Loglevel      = "loglevel"
	DevMode       = "devMode"
	TrustProxy    = "trustProxy"
	EnableMetrics = "enableMetrics"

	DBTypeKey          = "dbType"
	DBSettingsHost     = "dbSettings.host"
	DBSettingsPort     = "dbSettings.port"
	DBSettingsUser     = "dbSettings.user"
	DBSettingsPassword = "dbSettings.password"
	DBSettingsDatabase = "dbSettings.database"
	DBSettingsFilename = "dbSettings.filename"

	HistoryLimit = "history.limit"

	WidgetDefaultWidth  = "widget.defaultWidth"
	WidgetDefaultHeight = "widget.defaultHeight"
)

func ReadConfig(jsonStr string) (*Settings, error) {
	viper.SetConfigName("settings")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("slidedeck")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if jsonStr != "" {
		if err := viper.ReadConfig(strings.NewReader(jsonStr)); err != nil {
			return nil, err
		}
	} else {
		if err := viper.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, err
			}
		}
	}

	viper.SetDefault(Title, "Slide Editor")
	viper.SetDefault(IP, "0.0.0.0")
	viper.SetDefault(Port, "9002")
	viper.SetDefault(BaseURL, "http://localhost:9002")
	viper.SetDefault(Loglevel, "INFO")
	viper.SetDefault(DevMode, false)
	viper.SetDefault(TrustProxy, false)
	viper.SetDefault(EnableMetrics, false)

	viper.SetDefault(DBTypeKey, MEMORY)
	viper.SetDefault(DBSettingsHost, "localhost")
	viper.SetDefault(DBSettingsPort, "5432")
	viper.SetDefault(DBSettingsUser, "")
	viper.SetDefault(DBSettingsPassword, "")
	viper.SetDefault(DBSettingsDatabase, "slidedeck")
	viper.SetDefault(DBSettingsFilename, "var/slidedeck.db")

	viper.SetDefault(HistoryLimit, 100)

	viper.SetDefault(WidgetDefaultWidth, 250)
	viper.SetDefault(WidgetDefaultHeight, 120)

	dbTypeToUse, err := ParseDBType(viper.GetString(DBTypeKey))
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Title:    viper.GetString(Title),
		IP:       viper.GetString(IP),
		Port:     viper.GetString(Port),
		BaseURL:  viper.GetString(BaseURL),
		LogLevel: viper.GetString(Loglevel),
		DevMode:  viper.GetBool(DevMode),

		DBType: dbTypeToUse,
		DBSettings: DBSettings{
			Host:     viper.GetString(DBSettingsHost),
			Port:     viper.GetString(DBSettingsPort),
			User:     viper.GetString(DBSettingsUser),
			Password: viper.GetString(DBSettingsPassword),
			Database: viper.GetString(DBSettingsDatabase),
			Filename: viper.GetString(DBSettingsFilename),
		},

		HistoryLimit: viper.GetInt(HistoryLimit),

		Widget: WidgetDefaults{
			Width:  viper.GetFloat64(WidgetDefaultWidth),
			Height: viper.GetFloat64(WidgetDefaultHeight),
		},

		EnableMetrics: viper.GetBool(EnableMetrics),
		TrustProxy:    viper.GetBool(TrustProxy),
	}

	return s, nil
}
