package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/cli/config"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

func TestLogger_Validate(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "defaults", level: "info", format: "auto"},
		{name: "empty means defaults", level: "", format: ""},
		{name: "json debug", level: "debug", format: "json"},
		{name: "console upper case", level: "WARN", format: "Console"},
		{name: "bad level", level: "verbose", format: "auto", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.NewLogger(tt.level, tt.format).Validate()
			if tt.wantErr {
				gt.Error(t, err).Is(config.ErrInvalidConfig)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestLogger_ConfigureInstallsDefault(t *testing.T) {
	before := logging.Default()

	closer, err := config.NewLogger("debug", "json").Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, logging.Default()).NotEqual(before)

	closer()
	gt.Value(t, logging.Default()).Equal(before)
}

func TestLogger_ConfigureRejectsInvalid(t *testing.T) {
	_, err := config.NewLogger("info", "yaml").Configure()
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}
