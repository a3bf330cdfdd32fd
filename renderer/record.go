package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/richinsley/pulseborder/params"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// numBuffers is the depth of the frame queue between renderer and encoder.
const numBuffers = 3

// RecordOptions configures a recording.
type RecordOptions struct {
	Output     string
	FFmpegPath string
	// Codec is "h264" (default) or "hevc" for mp4 and mov outputs.
	Codec    string
	FPS      int
	Duration float64
	Width    int
	Height   int
}

func (o RecordOptions) validate() error {
	var errs []error
	if o.Output == "" {
		errs = append(errs, errors.New("output file is required"))
	}
	if o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", o.FPS))
	}
	if o.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", o.Duration))
	}
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, o.Width, o.Height))
	}
	return errors.Join(errs...)
}

// frameCount is the number of frames of the recording.
func (o RecordOptions) frameCount() int {
	return int(o.Duration * float64(o.FPS))
}

// frameTime is the presentation time of frame i.
func frameTime(i, fps int) time.Duration {
	return time.Duration(float64(i) * float64(time.Second) / float64(fps))
}

// videoFrame is one rendered frame on its way to the encoder.
type videoFrame struct {
	Pixels []byte
	PTS    int64
}

// getArgs returns the ffmpeg input and output arguments for raw RGBA frames.
func getArgs(o RecordOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", o.Width, o.Height),
		"framerate": o.FPS,
	}

	outputArgs = ffmpeg.KwArgs{}
	switch strings.ToLower(filepath.Ext(o.Output)) {
	case ".webm":
		// VP9 keeps the alpha channel.
		outputArgs["c:v"] = "libvpx-vp9"
		outputArgs["pix_fmt"] = "yuva420p"
		outputArgs["b:v"] = "0"
		outputArgs["crf"] = "30"
	case ".gif":
		outputArgs["vf"] = "split[a][b];[a]palettegen[p];[b][p]paletteuse"
	default:
		if o.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
			outputArgs["tag:v"] = "hvc1"
		} else {
			outputArgs["c:v"] = "libx264"
		}
		outputArgs["pix_fmt"] = "yuv420p"
		outputArgs["crf"] = "18"
	}
	return inputArgs, outputArgs
}

// runEncoder is the consumer: it feeds frames from frameChan to ffmpeg and
// reports ffmpeg's exit on doneChan. It closes failed when ffmpeg stops
// accepting frames, and keeps draining frameChan until it is closed.
func runEncoder(o RecordOptions, frameChan <-chan *videoFrame, failed chan<- struct{}, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(o)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(o.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if o.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(o.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock writes if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	var writeErr error
	for frame := range frameChan {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("writing frame %d to ffmpeg: %w", frame.PTS, err)
			close(failed)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		doneChan <- fmt.Errorf("ffmpeg: %w", err)
		return
	}
	doneChan <- writeErr
}

// Record renders the animation described by u at a fixed frame rate and
// encodes it with ffmpeg. Rendering happens on the calling goroutine, so a
// GL backend keeps its context. Cancelling ctx stops rendering and finishes
// the file with the frames produced so far.
func Record(ctx context.Context, b Backend, u params.Uniforms, o RecordOptions) error {
	if err := o.validate(); err != nil {
		return fmt.Errorf("invalid recording options: %w", err)
	}
	frameChan := make(chan *videoFrame, numBuffers)
	encoderFailed := make(chan struct{})
	encoderDoneChan := make(chan error, 1)
	go runEncoder(o, frameChan, encoderFailed, encoderDoneChan)

	clock := NewClock(u)
	total := o.frameCount()
	Logger().Info("recording", "output", o.Output, "frames", total, "fps", o.FPS)

	var renderErr error
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			Logger().Warn("recording cancelled", "frame", i)
			renderErr = err
			break
		}
		img := image.NewNRGBA(image.Rect(0, 0, o.Width, o.Height))
		f := Frame{Uniforms: u, Time: clock.Time(frameTime(i, o.FPS))}
		if err := b.RenderFrame(img, f); err != nil {
			renderErr = fmt.Errorf("rendering frame %d: %w", i, err)
			break
		}

		select {
		case frameChan <- &videoFrame{Pixels: img.Pix, PTS: int64(i)}:
			continue
		case <-encoderFailed:
		}
		break
	}
	close(frameChan)

	encErr := <-encoderDoneChan
	if renderErr != nil {
		return errors.Join(renderErr, encErr)
	}
	return encErr
}
