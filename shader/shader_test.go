package shader

import (
	"strings"
	"testing"
)

func TestUniformsDeclared(t *testing.T) {
	src := VertexSource() + FragmentSource()
	for _, name := range UniformNames {
		if !strings.Contains(src, " "+name+";") && !strings.Contains(src, " "+name+"[") {
			t.Errorf("uniform %s is not declared in the ESSL program", name)
		}
	}
}

func TestKageUniformsDeclared(t *testing.T) {
	src := string(Kage())
	if !strings.Contains(src, "//kage:unit pixels") {
		t.Error("Kage source must use pixel units")
	}
	for _, name := range UniformNames {
		if name == NoiseTexture {
			continue
		}
		kname, err := KageName(name)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(src, "var "+kname+" ") {
			t.Errorf("Kage source does not declare %s", kname)
		}
	}
}

func TestKageName(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"u_time", "Time", false},
		{"u_pixelStepX", "PixelStepX", false},
		{"time", "", true},
		{"u_", "", true},
	}
	for _, tt := range tests {
		got, err := KageName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("KageName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("KageName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKageIsACopy(t *testing.T) {
	a := Kage()
	a[0] = 'x'
	if Kage()[0] == 'x' {
		t.Error("Kage() returned shared storage")
	}
}

func TestSourcesAreESSL(t *testing.T) {
	for name, src := range map[string]string{"vertex": VertexSource(), "fragment": FragmentSource()} {
		if !strings.HasPrefix(src, "#version 300 es\n") {
			t.Errorf("%s source does not start with an ESSL 300 version line", name)
		}
	}
}
