package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/media"
	"github.com/erazemk/najdeno/internal/model"
)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{0, 128, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestCreateRejectsForeignLocator(t *testing.T) {
	env := newTestEnv(t)
	fs, err := media.NewFSStore(t.TempDir(), "http://localhost:8080/media")
	if err != nil {
		t.Fatal(err)
	}
	env.items.Media = fs
	ana := env.register(t, "ana@uni.edu")
	ctx := context.Background()

	draft := model.Draft{
		Title: "Bag", Category: model.CategoryAccessories, Date: "2026-02-28",
		ReportType: model.ReportFound, MediaLocator: "https://evil.example/items/x.jpg",
	}
	_, err = env.items.Create(ctx, ana, draft)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Field != "media_locator" {
		t.Errorf("expected media_locator ValidationError, got %v", err)
	}

	locator, err := env.items.UploadMedia(ctx, ana, testJPEG(t), "bag.jpg")
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	draft.MediaLocator = locator
	item, err := env.items.Create(ctx, ana, draft)
	if err != nil {
		t.Fatalf("Create with own locator: %v", err)
	}

	// Deleting the item removes the file through the real store.
	if err := env.items.Delete(ctx, ana, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := fs.Remove(ctx, locator); !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("expected blob to be gone already, got %v", err)
	}
}

func TestNameFromEmail(t *testing.T) {
	tests := map[string]string{
		"ana.novak@uni.edu": "Ana Novak",
		"bor_k@uni.edu":     "Bor K",
		"x@uni.edu":         "X",
		"@uni.edu":          "User",
	}
	for email, want := range tests {
		if got := nameFromEmail(email); got != want {
			t.Errorf("nameFromEmail(%q) = %q, want %q", email, got, want)
		}
	}
}

func TestCreateRejectsMediaUploadedByOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@uni.edu")
	bor := env.register(t, "bor@uni.edu")

	locator, err := env.items.UploadMedia(ctx, ana, testJPEG(t), "bottle.jpg")
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	draft := model.Draft{
		Title: "Bottle", Category: model.CategoryOthers, Date: "2026-02-28",
		ReportType: model.ReportFound, MediaLocator: locator,
	}
	original, err := env.items.Create(ctx, ana, draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Another account cannot attach, and so cannot later delete, the photo.
	_, err = env.items.Create(ctx, bor, draft)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Field != "media_locator" {
		t.Fatalf("expected media_locator ValidationError, got %v", err)
	}

	// The uploader cannot attach one photo to two items either.
	if _, err := env.items.Create(ctx, ana, draft); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict for reused locator, got %v", err)
	}

	if len(env.media.removed) != 0 {
		t.Errorf("expected no blob removals, got %v", env.media.removed)
	}
	if _, ok := env.media.uploads[locator]; !ok {
		t.Error("original photo should still exist")
	}
	view, err := env.items.Get(ctx, ana, original.ID)
	if err != nil || view.MediaLocator != locator {
		t.Errorf("original item changed: %+v, %v", view, err)
	}
}

func TestCreateRejectsUnrecordedLocator(t *testing.T) {
	env := newTestEnv(t)
	ana := env.register(t, "ana@uni.edu")

	_, err := env.items.Create(context.Background(), ana, model.Draft{
		Title: "Bottle", Category: model.CategoryOthers, Date: "2026-02-28",
		ReportType: model.ReportLost, MediaLocator: "http://media.test/items/never-uploaded.jpg",
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestDeleteForgetsUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@uni.edu")

	locator, _ := env.items.UploadMedia(ctx, ana, testJPEG(t), "scarf.jpg")
	draft := model.Draft{
		Title: "Scarf", Category: model.CategoryOthers, Date: "2026-02-28",
		ReportType: model.ReportLost, MediaLocator: locator,
	}
	item, err := env.items.Create(ctx, ana, draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.items.Delete(ctx, ana, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The removed photo's locator cannot be reattached.
	if _, err := env.items.Create(ctx, ana, draft); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ValidationError for deleted photo, got %v", err)
	}
}

func TestContactPreference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@uni.edu")
	draft := model.Draft{Title: "Keys", Category: model.CategoryAccessories, Date: "2026-02-28", ReportType: model.ReportLost}

	item, err := env.items.Create(ctx, ana, draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.ContactPreference != model.ContactEmail {
		t.Errorf("expected default %q, got %q", model.ContactEmail, item.ContactPreference)
	}

	draft.ContactPreference = model.ContactInApp
	item, err = env.items.Create(ctx, ana, draft)
	if err != nil || item.ContactPreference != model.ContactInApp {
		t.Errorf("expected in_app, got %+v, %v", item, err)
	}

	draft.ContactPreference = "carrier pigeon"
	_, err = env.items.Create(ctx, ana, draft)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Field != "contact_preference" {
		t.Errorf("expected contact_preference ValidationError, got %v", err)
	}
}

func TestTitleLengthCountsCharacters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@uni.edu")
	draft := model.Draft{Category: model.CategoryBooks, Date: "2026-02-28", ReportType: model.ReportFound}

	draft.Title = strings.Repeat("č", MaxTitleLength)
	if _, err := env.items.Create(ctx, ana, draft); err != nil {
		t.Errorf("expected %d-character title to be accepted, got %v", MaxTitleLength, err)
	}

	draft.Title = strings.Repeat("č", MaxTitleLength+1)
	if _, err := env.items.Create(ctx, ana, draft); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ValidationError for long title, got %v", err)
	}
}
