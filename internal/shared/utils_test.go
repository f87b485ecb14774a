package shared

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{185, "3:05"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AC/DC - Back in Black", "AC_DC - Back in Black"},
		{`bad<>:"|?*chars`, "bad_______chars"},
		{"  trimmed. ", "trimmed"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("expected short string unchanged, got %q", got)
	}
	got := TruncateString("a long string that needs truncating", 10)
	if len(got) > 13 {
		t.Errorf("truncated string too long: %q", got)
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestIsAudioFile(t *testing.T) {
	for _, name := range []string{"song.mp3", "song.FLAC", "track.m4a"} {
		if !IsAudioFile(name) {
			t.Errorf("expected %q to be audio", name)
		}
	}
	for _, name := range []string{"cover.jpg", "notes.txt", "song.mp3.part"} {
		if IsAudioFile(name) {
			t.Errorf("expected %q not to be audio", name)
		}
	}
}

func TestIsValidQuality(t *testing.T) {
	for _, q := range SupportedQualities {
		if !IsValidQuality(q) {
			t.Errorf("expected %q valid", q)
		}
	}
	for _, q := range []string{"flac", "256", "", "HIGH"} {
		if IsValidQuality(q) {
			t.Errorf("expected %q invalid", q)
		}
	}
}
