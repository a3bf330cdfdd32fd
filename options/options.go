package options

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// Options is the command line of pulseborder.
type Options struct {
	Help       *bool
	Mode       *string // snapshot, record, window or terminal
	Backend    *string // auto, software, gl or kage
	ParamsFile *string
	Preset     *string
	NoiseFile  *string
	Width      *int
	Height     *int
	PixelRatio *float64
	Time       *float64
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	// Supersample renders snapshots this many times larger and scales down.
	Supersample *int
	Workers     *int
	Verbose     *bool
}

// Modes lists the accepted -mode values.
var Modes = []string{"snapshot", "record", "window", "terminal"}

// Register defines the flags on fs.
func Register(fs *flag.FlagSet) *Options {
	return &Options{
		Help:        fs.Bool("help", false, "Show help message"),
		Mode:        fs.String("mode", "window", "One of "+strings.Join(Modes, ", ")),
		Backend:     fs.String("backend", "auto", "Render backend: auto, software, gl or kage"),
		ParamsFile:  fs.String("params", "", "JSON parameter file, applied on top of the preset"),
		Preset:      fs.String("preset", "default", "Built-in parameter preset"),
		NoiseFile:   fs.String("noise", "", "PNG noise texture (built-in lattice if empty)"),
		Width:       fs.Int("width", 1280, "Width of the output in pixels"),
		Height:      fs.Int("height", 720, "Height of the output in pixels"),
		PixelRatio:  fs.Float64("pixel-ratio", 0, "Device pixel ratio (0 picks the display's, or 1 offscreen)"),
		Time:        fs.Float64("time", 0, "Seconds after start to render in snapshot mode"),
		Duration:    fs.Float64("duration", 5.0, "Duration to record in seconds"),
		FPS:         fs.Int("fps", 60, "Frames per second for recording and the terminal"),
		OutputFile:  fs.String("output", "", "Output file (default border.png or border.mp4)"),
		FFMPEGPath:  fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:       fs.String("codec", "h264", "Video codec for mp4/mov: h264 or hevc"),
		Supersample: fs.Int("supersample", 1, "Snapshot supersampling factor"),
		Workers:     fs.Int("workers", 0, "Software backend workers (0 = GOMAXPROCS)"),
		Verbose:     fs.Bool("verbose", false, "Enable debug logging"),
	}
}

// Validate checks the values that flag parsing cannot.
func (o *Options) Validate() error {
	var errs []error
	valid := false
	for _, m := range Modes {
		if *o.Mode == m {
			valid = true
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("unknown mode %q", *o.Mode))
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %dx%d", *o.Width, *o.Height))
	}
	if *o.PixelRatio < 0 {
		errs = append(errs, fmt.Errorf("pixel ratio must not be negative, got %g", *o.PixelRatio))
	}
	if *o.Supersample < 1 || *o.Supersample > 8 {
		errs = append(errs, fmt.Errorf("supersample must be in [1,8], got %d", *o.Supersample))
	}
	if *o.Codec != "h264" && *o.Codec != "hevc" {
		errs = append(errs, fmt.Errorf("unknown codec %q", *o.Codec))
	}
	return errors.Join(errs...)
}

// Output returns the output path, defaulting by mode.
func (o *Options) Output() string {
	if *o.OutputFile != "" {
		return *o.OutputFile
	}
	if *o.Mode == "record" {
		return "border.mp4"
	}
	return "border.png"
}
