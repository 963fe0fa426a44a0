// Package publish is the publication policy: pure formatting with no I/O,
// so the direct-publish path and the approved-after-queue path produce
// byte-identical output.
package publish

import (
	"fmt"

	"github.com/anonrelay/backend/internal/models"
)

// FormatForChannel renders the final channel post for a piece of content
// under the submitter's pseudonym.
func FormatForChannel(kind models.ContentKind, text, displayName string) string {
	switch kind {
	case models.ContentText:
		return fmt.Sprintf("📝 %s:\n\n%s", displayName, text)
	case models.ContentPhoto, models.ContentVideo, models.ContentAudio,
		models.ContentVoice, models.ContentDocument, models.ContentAnimation,
		models.ContentSticker:
		if text == "" {
			return fmt.Sprintf("📸 %s", displayName)
		}
		return fmt.Sprintf("📸 %s:\n\n%s", displayName, text)
	}
	return text
}

// FormatForReview renders the single admin approval card for a pending item
func FormatForReview(item *models.ModerationItem) string {
	caption := item.Caption
	if caption == "" {
		caption = "(no caption)"
	}
	return fmt.Sprintf(
		"Review request\nFrom: %s\nAt: %s\nKind: %s\nCaption: %s\nID: %s",
		item.DisplayName,
		item.CreatedAt.UTC().Format("2006-01-02 15:04"),
		item.Kind,
		caption,
		item.ID,
	)
}

// NewPublication wraps a formatted post in the event payload handed to the
// transport collaborator.
func NewPublication(channelID string, kind models.ContentKind, payloadRef, text, displayName string) models.Publication {
	return models.Publication{
		ChannelID:  channelID,
		Kind:       kind,
		PayloadRef: payloadRef,
		Body:       FormatForChannel(kind, text, displayName),
	}
}
