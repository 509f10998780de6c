package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")

	if err := WriteFile(context.Background(), path, []byte("one")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(context.Background(), path, []byte("two")); err != nil {
		t.Fatalf("WriteFile overwrite failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}

	names, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("temporary files left behind: %v", names)
	}
}

func TestWriteFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := WriteFile(ctx, path, []byte("x")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if FileExists(path) {
		t.Error("file written despite cancelled context")
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.jpg")

	removed, err := RemoveIfExists(path)
	if err != nil || removed {
		t.Fatalf("RemoveIfExists(missing) = %v, %v", removed, err)
	}

	os.WriteFile(path, []byte("x"), 0644)
	removed, err = RemoveIfExists(path)
	if err != nil || !removed {
		t.Fatalf("RemoveIfExists(existing) = %v, %v", removed, err)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	c := filepath.Join(dir, "c.jpg")
	os.WriteFile(a, []byte("placeholder"), 0644)
	os.WriteFile(b, []byte("placeholder"), 0644)
	os.WriteFile(c, []byte("painting"), 0644)

	ha, _ := HashFile(a)
	hb, _ := HashFile(b)
	hc, _ := HashFile(c)
	if ha != hb {
		t.Error("identical content hashed differently")
	}
	if ha == hc {
		t.Error("different content hashed identically")
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.JPG", "notes.txt", ".hidden.jpg"} {
		os.WriteFile(filepath.Join(dir, name), nil, 0644)
	}
	os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755)

	names, err := ListFiles(dir, ".jpg")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	want := []string{"a.JPG", "b.jpg"}
	if len(names) != len(want) {
		t.Fatalf("ListFiles = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListFiles[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	missing, err := ListFiles(filepath.Join(dir, "absent"))
	if err != nil || len(missing) != 0 {
		t.Errorf("ListFiles(missing) = %v, %v", missing, err)
	}
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestImageService_Normalize(t *testing.T) {
	ctx := context.Background()

	t.Run("png converted to jpeg", func(t *testing.T) {
		svc := NewImageService(ImageOptions{ConvertToJPG: true})
		out, err := svc.Normalize(ctx, encodePNG(t, testImage(20, 10)))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		_, format, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil || format != "jpeg" {
			t.Fatalf("format = %q, %v; want jpeg", format, err)
		}
	})

	t.Run("jpeg passed through", func(t *testing.T) {
		in := encodeJPEG(t, testImage(20, 10))
		svc := NewImageService(ImageOptions{ConvertToJPG: true})
		out, err := svc.Normalize(ctx, in)
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if !bytes.Equal(in, out) {
			t.Error("JPEG within bounds was re-encoded")
		}
	})

	t.Run("oversized resized", func(t *testing.T) {
		svc := NewImageService(ImageOptions{ConvertToJPG: true, MaxDimension: 10})
		out, err := svc.Normalize(ctx, encodeJPEG(t, testImage(40, 20)))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("DecodeConfig failed: %v", err)
		}
		if cfg.Width != 10 || cfg.Height != 5 {
			t.Errorf("size = %dx%d, want 10x5", cfg.Width, cfg.Height)
		}
	})

	t.Run("disabled passes anything", func(t *testing.T) {
		svc := NewImageService(ImageOptions{})
		in := []byte("not an image")
		out, err := svc.Normalize(ctx, in)
		if err != nil || !bytes.Equal(in, out) {
			t.Errorf("Normalize = %q, %v", out, err)
		}
	})

	t.Run("undecodable", func(t *testing.T) {
		svc := NewImageService(ImageOptions{ConvertToJPG: true})
		if _, err := svc.Normalize(ctx, []byte("<html>not found</html>")); err == nil {
			t.Error("expected decode error")
		}
	})
}
