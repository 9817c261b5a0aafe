package stream

import (
	"errors"
	"io"
	"sync"

	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/subprocess"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var ErrProtocol = xerror.NewWithKind("stream_protocol", "raw frame pipe protocol violation")

// Decoder reads packed rgb24 frames of a fixed size off a decoder stdout.
type Decoder struct {
	r      io.Reader
	size   videoframe.Dimensions
	frames int
}

func NewDecoder(r io.Reader, size videoframe.Dimensions) *Decoder {
	return &Decoder{r: r, size: size}
}

// Next returns the next frame. io.EOF is returned once the stream ends on
// a frame boundary.
func (d *Decoder) Next() (videoframe.Frame, error) {
	buf := make([]byte, d.size.RGBSize())
	n, err := io.ReadFull(d.r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return videoframe.Frame{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return videoframe.Frame{}, xerror.Errorf(
				"%w: decoder stream ended %d bytes into frame %d of %s", ErrProtocol, n, d.frames, d.size,
			)
		}
		return videoframe.Frame{}, xerror.Errorf("unable to read frame %d from decoder: %w", d.frames, err)
	}

	img, err := videoframe.NewRGBFromBytes(d.size, buf)
	if err != nil {
		return videoframe.Frame{}, err
	}
	f := videoframe.Frame{Index: d.frames, Offset: int64(d.frames) * int64(len(buf)), Image: img}
	d.frames++
	return f, nil
}

func (d *Decoder) Frames() int { return d.frames }

// Encoder writes packed rgb24 frames of one fixed size to an encoder stdin.
type Encoder struct {
	w      io.Writer
	size   videoframe.Dimensions
	frames int
	bytes  int64
}

func NewEncoder(w io.Writer, size videoframe.Dimensions) *Encoder {
	return &Encoder{w: w, size: size}
}

func (e *Encoder) Size() videoframe.Dimensions { return e.size }

// Write sends one frame in a single write.
func (e *Encoder) Write(img videoframe.Image) error {
	if img.Channels != 3 {
		img = img.RGB()
	}
	if img.Dimensions() != e.size || len(img.Pix) != e.size.RGBSize() {
		return xerror.Errorf(
			"%w: frame %d is %s with %d bytes, encoder expects %s", ErrProtocol, e.frames, img.Dimensions(), len(img.Pix), e.size,
		)
	}

	n, err := e.w.Write(img.Pix)
	e.bytes += int64(n)
	if err != nil {
		return xerror.Errorf("unable to write frame %d to encoder: %w", e.frames, err)
	}
	if n != len(img.Pix) {
		return xerror.Errorf("%w: short write of frame %d, %d of %d bytes", ErrProtocol, e.frames, n, len(img.Pix))
	}
	e.frames++
	return nil
}

func (e *Encoder) Frames() int  { return e.frames }
func (e *Encoder) Bytes() int64 { return e.bytes }

// Adapter owns the decoder and encoder processes of one stream mode run.
// The decoder is optional, image sequence inputs only feed the encoder.
type Adapter struct {
	decoderProc subprocess.Process
	encoderProc subprocess.Process
	Decoder     *Decoder
	Encoder     *Encoder

	once sync.Once
}

func NewAdapter(decoder, encoder subprocess.Process, in, out videoframe.Dimensions) *Adapter {
	a := &Adapter{decoderProc: decoder, encoderProc: encoder}
	if decoder != nil {
		a.Decoder = NewDecoder(decoder.Stdout(), in)
	}
	a.Encoder = NewEncoder(encoder.Stdin(), out)
	return a
}

// Close shuts the decoder down before the encoder, the encoder is only
// waited on once its stdin is closed so the container gets flushed.
func (a *Adapter) Close() error {
	var err error
	a.once.Do(func() {
		if a.decoderProc != nil {
			if closeErr := a.decoderProc.Stdin().Close(); closeErr != nil {
				log.Debug("Unable to close decoder stdin: %v", closeErr)
			}
			if waitErr := a.decoderProc.Wait(); waitErr != nil {
				err = xerror.Errorf("decoder exited with error: %w", waitErr)
			}
		}

		if closeErr := a.encoderProc.Stdin().Close(); closeErr != nil && err == nil {
			err = xerror.Errorf("unable to close encoder stdin: %w", closeErr)
		}
		if waitErr := a.encoderProc.Wait(); waitErr != nil && err == nil {
			err = xerror.Errorf("encoder exited with error: %w", waitErr)
		}
	})
	return err
}

// Abort kills both processes without flushing anything.
func (a *Adapter) Abort() {
	a.once.Do(func() {
		if a.decoderProc != nil {
			if err := a.decoderProc.Kill(); err != nil {
				log.Debug("Unable to kill decoder: %v", err)
			}
			a.decoderProc.Wait() //nolint
		}
		if err := a.encoderProc.Kill(); err != nil {
			log.Debug("Unable to kill encoder: %v", err)
		}
		a.encoderProc.Wait() //nolint
	})
}
