package settings

import (
	"fmt"
	"strings"
)

type DBType string

const (
	SQLITE   DBType = "sqlite"
	MEMORY   DBType = "memory"
	POSTGRES DBType = "postgres"
)

func ParseDBType(s string) (DBType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite":
		return SQLITE, nil
	case "memory":
		return MEMORY, nil
	case "postgres":
		return POSTGRES, nil
	default:
		return "", fmt.Errorf("unknown DB type: %q", s)
	}
}

func (dbType DBType) String() string {
	return string(dbType)
}
