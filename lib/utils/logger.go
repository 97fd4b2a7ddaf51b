package utils

import "go.uber.org/zap"

func SetupLogger(devMode bool) *zap.SugaredLogger {
	if devMode {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}
	return zap.Must(zap.NewProduction()).Sugar()
}
