package options

import (
	"flag"
	"io"
	"testing"
)

func parse(t *testing.T, args ...string) *Options {
	t.Helper()
	fs := flag.NewFlagSet("pulseborder", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := Register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestDefaultsValidate(t *testing.T) {
	o := parse(t)
	if err := o.Validate(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	if *o.Mode != "window" || *o.Backend != "auto" {
		t.Errorf("mode/backend = %s/%s", *o.Mode, *o.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"snapshot", []string{"-mode", "snapshot", "-supersample", "4"}, false},
		{"unknown mode", []string{"-mode", "stream"}, true},
		{"zero width", []string{"-width", "0"}, true},
		{"negative ratio", []string{"-pixel-ratio", "-1"}, true},
		{"too much supersampling", []string{"-supersample", "16"}, true},
		{"bad codec", []string{"-codec", "av1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parse(t, tt.args...).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutput(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-mode", "snapshot"}, "border.png"},
		{[]string{"-mode", "record"}, "border.mp4"},
		{[]string{"-mode", "record", "-output", "x.webm"}, "x.webm"},
	}
	for _, tt := range tests {
		if got := parse(t, tt.args...).Output(); got != tt.want {
			t.Errorf("%v: Output() = %q, want %q", tt.args, got, tt.want)
		}
	}
}
