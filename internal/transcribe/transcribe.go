package transcribe

import (
	"context"
	"path/filepath"
	"strings"
)

// Transcriber converts an audio file into a transcript string.
type Transcriber interface {
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}

// SupportedExtensions lists the audio formats accepted for upload.
var SupportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
	".aac":  true,
}

// IsSupportedExtension reports whether a filename has an accepted audio
// extension.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
