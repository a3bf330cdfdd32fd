package renderer

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", Auto, false},
		{"auto", Auto, false},
		{"Software", Software, false},
		{"gl", GL, false},
		{"gles", GL, false},
		{" kage ", Kage, false},
		{"vulkan", Auto, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		caps    Capabilities
		got     Kind
		wantErr error
	}{
		{"auto prefers runtime shader", Auto, Capabilities{RuntimeShader: true, GL: true}, Kage, nil},
		{"auto falls back to gl", Auto, Capabilities{GL: true}, GL, nil},
		{"auto falls back to software", Auto, Capabilities{}, Software, nil},
		{"explicit software", Software, Capabilities{RuntimeShader: true, GL: true}, Software, nil},
		{"explicit gl", GL, Capabilities{GL: true}, GL, nil},
		{"explicit gl unsupported", GL, Capabilities{RuntimeShader: true}, GL, ErrUnsupported},
		{"explicit kage unsupported", Kage, Capabilities{GL: true}, Kage, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.want, tt.caps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Select error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.got {
				t.Errorf("Select = %v, want %v", got, tt.got)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for _, k := range []Kind{Auto, Software, GL, Kage} {
		back, err := ParseKind(k.String())
		if err != nil || back != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), back, err)
		}
	}
}
