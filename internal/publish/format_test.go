package publish

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anonrelay/backend/internal/models"
)

func TestFormatForChannelText(t *testing.T) {
	got := FormatForChannel(models.ContentText, "hello everyone", "Silent Wolf")
	want := "📝 Silent Wolf:\n\nhello everyone"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFormatForChannelMedia(t *testing.T) {
	got := FormatForChannel(models.ContentPhoto, "", "User #3")
	if got != "📸 User #3" {
		t.Errorf("Unexpected captionless media post: %q", got)
	}

	got = FormatForChannel(models.ContentVideo, "sunset timelapse", "User #3")
	want := "📸 User #3:\n\nsunset timelapse"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFormatForChannelAllKinds(t *testing.T) {
	kinds := []models.ContentKind{
		models.ContentText, models.ContentPhoto, models.ContentVideo,
		models.ContentAudio, models.ContentVoice, models.ContentDocument,
		models.ContentAnimation, models.ContentSticker,
	}
	for _, kind := range kinds {
		got := FormatForChannel(kind, "body", "Name")
		if !strings.Contains(got, "Name") {
			t.Errorf("Kind %s: post %q missing display name", kind, got)
		}
	}
}

func TestDirectAndApprovedPathsMatch(t *testing.T) {
	direct := NewPublication("chan-1", models.ContentText, "", "same words", "Silent Wolf")
	approved := NewPublication("chan-1", models.ContentText, "", "same words", "Silent Wolf")
	if direct.Body != approved.Body {
		t.Errorf("Publication bodies differ: %q vs %q", direct.Body, approved.Body)
	}
}

func TestFormatForReview(t *testing.T) {
	created := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	item := &models.ModerationItem{
		ID:          uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		DisplayName: "User #9",
		Kind:        models.ContentPhoto,
		Caption:     "look at this",
		CreatedAt:   created,
	}

	card := FormatForReview(item)
	for _, want := range []string{
		"From: User #9",
		"At: 2024-05-01 14:30",
		"Kind: photo",
		"Caption: look at this",
		"ID: 11111111-2222-3333-4444-555555555555",
	} {
		if !strings.Contains(card, want) {
			t.Errorf("Card missing %q:\n%s", want, card)
		}
	}
}

func TestFormatForReviewNoCaption(t *testing.T) {
	item := &models.ModerationItem{
		ID:          uuid.New(),
		DisplayName: "User #9",
		Kind:        models.ContentVoice,
		CreatedAt:   time.Now(),
	}

	card := FormatForReview(item)
	if !strings.Contains(card, "Caption: (no caption)") {
		t.Errorf("Expected placeholder caption:\n%s", card)
	}
}
