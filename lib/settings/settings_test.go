package settings

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreApplied(t *testing.T) {
	viper.Reset()

	cfg, err := ReadConfig("{}")
	require.NoError(t, err)

	require.Equal(t, "Slide Editor", cfg.Title)
	require.Equal(t, "9002", cfg.Port)
	require.Equal(t, MEMORY, cfg.DBType)
	require.Equal(t, 100, cfg.HistoryLimit)
	require.Equal(t, float64(250), cfg.Widget.Width)
	require.Equal(t, float64(120), cfg.Widget.Height)
}

func TestConfigOverridesDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := ReadConfig(`{"port": "9999", "dbType": "sqlite", "history": {"limit": 5}}`)
	require.NoError(t, err)

	require.Equal(t, "9999", cfg.Port)
	require.Equal(t, SQLITE, cfg.DBType)
	require.Equal(t, 5, cfg.HistoryLimit)
}

func TestUnknownDBTypeIsRejected(t *testing.T) {
	viper.Reset()

	_, err := ReadConfig(`{"dbType": "oracle"}`)
	require.Error(t, err)
}

func TestParseDBType(t *testing.T) {
	testCases := []struct {
		input   string
		want    DBType
		wantErr bool
	}{
		{"sqlite", SQLITE, false},
		{" Memory ", MEMORY, false},
		{"POSTGRES", POSTGRES, false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDBType(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
