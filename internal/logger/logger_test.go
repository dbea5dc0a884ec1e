package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestBuild(t *testing.T) {
	for name, tc := range map[string]struct {
		level, format string
		wantLevel     zapcore.Level
		wantEncoding  string
	}{
		"defaults":      {wantLevel: zapcore.InfoLevel, wantEncoding: "json"},
		"debug console": {level: "debug", format: "Console", wantLevel: zapcore.DebugLevel, wantEncoding: "console"},
		"bogus level":   {level: "loud", format: "json", wantLevel: zapcore.InfoLevel, wantEncoding: "json"},
		"warn":          {level: " warn ", wantLevel: zapcore.WarnLevel, wantEncoding: "json"},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := build(tc.level, tc.format)
			if got := cfg.Level.Level(); got != tc.wantLevel {
				t.Errorf("level: got %s, want %s", got, tc.wantLevel)
			}
			if cfg.Encoding != tc.wantEncoding {
				t.Errorf("encoding: got %s, want %s", cfg.Encoding, tc.wantEncoding)
			}
		})
	}
}
