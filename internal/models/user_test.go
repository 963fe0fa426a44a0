package models

import (
	"testing"
)

func TestContentKind_Valid(t *testing.T) {
	tests := []struct {
		name string
		kind ContentKind
		want bool
	}{
		{name: "Text", kind: ContentText, want: true},
		{name: "Photo", kind: ContentPhoto, want: true},
		{name: "Video", kind: ContentVideo, want: true},
		{name: "Audio", kind: ContentAudio, want: true},
		{name: "Voice", kind: ContentVoice, want: true},
		{name: "Document", kind: ContentDocument, want: true},
		{name: "Animation", kind: ContentAnimation, want: true},
		{name: "Sticker", kind: ContentSticker, want: true},
		{name: "Empty", kind: ContentKind(""), want: false},
		{name: "Unknown", kind: ContentKind("poll"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Valid(); got != tt.want {
				t.Errorf("ContentKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestUserProfile_HasCustomName(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		want    bool
	}{
		{
			name:    "Default name",
			profile: UserProfile{SequenceNumber: 7, DisplayName: "User #7"},
			want:    false,
		},
		{
			name:    "Custom name",
			profile: UserProfile{SequenceNumber: 7, DisplayName: "Night Owl"},
			want:    true,
		},
		{
			name:    "Default name of another sequence counts as custom",
			profile: UserProfile{SequenceNumber: 7, DisplayName: "User #8"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.HasCustomName(); got != tt.want {
				t.Errorf("HasCustomName() = %v, want %v", got, tt.want)
			}
		})
	}
}
