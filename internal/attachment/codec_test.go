package attachment

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// pngBytes encodes a solid-color image of the given width/height as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	data := []byte("%PDF-1.4 fake body")
	payload := Encode("application/pdf", data)
	if !strings.HasPrefix(payload, "data:application/pdf;base64,") {
		t.Fatalf("payload prefix: %q", payload[:40])
	}
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch")
	}
}

func TestDecode_NoSeparator(t *testing.T) {
	_, err := Decode("data:application/pdf;base64")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestDecode_EmptyPayload(t *testing.T) {
	_, err := Decode("data:application/pdf;base64,")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestDecode_BadBase64(t *testing.T) {
	_, err := Decode("data:image/png;base64,!!not-base64!!")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestEncodeImage_SmallImageKeptVerbatim(t *testing.T) {
	png := pngBytes(t, 100, 60)
	payload, err := EncodeImage("image/png", png)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, png) {
		t.Fatal("small image was altered")
	}
	if MIMEType(payload) != "image/png" {
		t.Errorf("mime = %q", MIMEType(payload))
	}
}

func TestEncodeImage_WideImageDownscaled(t *testing.T) {
	png := pngBytes(t, 2400, 600)
	payload, err := EncodeImage("image/png", png)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if MIMEType(payload) != "image/jpeg" {
		t.Fatalf("downscaled mime = %q, want image/jpeg", MIMEType(payload))
	}
	data, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode resized image: %v", err)
	}
	if img.Bounds().Dx() != 1200 {
		t.Errorf("width = %d, want 1200", img.Bounds().Dx())
	}
	// Aspect ratio preserved: 2400x600 -> 1200x300.
	if img.Bounds().Dy() != 300 {
		t.Errorf("height = %d, want 300", img.Bounds().Dy())
	}
}

func TestEncodeImage_Oversized(t *testing.T) {
	_, err := EncodeImage("image/png", make([]byte, MaxImageBytes+1))
	if !errors.Is(err, ErrOversizedFile) {
		t.Fatalf("err = %v, want ErrOversizedFile", err)
	}
}

func TestEncodeImage_Garbage(t *testing.T) {
	_, err := EncodeImage("image/png", []byte("not an image"))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestEncodePDF_Oversized(t *testing.T) {
	_, err := EncodePDF(make([]byte, MaxPDFBytes+1))
	if !errors.Is(err, ErrOversizedFile) {
		t.Fatalf("err = %v, want ErrOversizedFile", err)
	}
}

func TestNormalizePDF_RoundTrip(t *testing.T) {
	data := []byte("%PDF-1.4 body")
	payload, err := NormalizePDF(Encode("application/pdf", data))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch")
	}
}

func TestMIMEType(t *testing.T) {
	if m := MIMEType("data:image/png;base64,AAAA"); m != "image/png" {
		t.Errorf("mime = %q", m)
	}
	if m := MIMEType("plain string"); m != "" {
		t.Errorf("mime = %q, want empty", m)
	}
}
