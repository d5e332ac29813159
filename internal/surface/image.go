package surface

import (
	"image"
	"io"

	// Formats accepted by LoadImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"LocalSketch/internal/errors"
)

// DecodeImage decodes an uploaded image in any registered format.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	return img, format, nil
}

// LoadImage decodes r in the background and installs the result with
// SetImage. Until decoding succeeds the image tool keeps using the previous
// image, or does nothing if there is none. Decode failures are logged and
// reported only on the returned channel, which receives exactly one value
// and is then closed. r must stay readable until then.
func (s *Surface) LoadImage(r io.Reader) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		img, format, err := DecodeImage(r)
		if err != nil {
			s.log.Debug("image upload ignored", "err", err)
			done <- err
			return
		}
		s.log.Debug("image decoded", "format", format)
		s.SetImage(img)
		done <- nil
	}()
	return done
}
