package upload

import (
	"path/filepath"
	"strings"
)

// Group is a supported file family. Its value doubles as the upload category id.
type Group string

// Supported groups.
const (
	Images        Group = "images"
	Documents     Group = "documents"
	Videos        Group = "videos"
	Audio         Group = "audio"
	Archives      Group = "archives"
	Presentations Group = "presentations"
)

var extensions = map[string]Group{
	".jpg": Images, ".jpeg": Images, ".png": Images, ".gif": Images, ".webp": Images, ".svg": Images,
	".pdf": Documents, ".doc": Documents, ".docx": Documents, ".txt": Documents, ".rtf": Documents, ".odt": Documents,
	".mp4": Videos, ".avi": Videos, ".mov": Videos, ".wmv": Videos, ".flv": Videos, ".webm": Videos,
	".mp3": Audio, ".wav": Audio, ".flac": Audio, ".aac": Audio, ".ogg": Audio,
	".zip": Archives, ".rar": Archives, ".7z": Archives, ".tar": Archives, ".gz": Archives,
	".ppt": Presentations, ".pptx": Presentations, ".odp": Presentations,
}

var labels = map[Group]string{
	Images:        "Images",
	Documents:     "Documents",
	Videos:        "Videos",
	Audio:         "Audio",
	Archives:      "Archives",
	Presentations: "Presentations",
}

var contentTypes = map[Group]string{
	Images:        "Image",
	Documents:     "Document",
	Videos:        "Video",
	Audio:         "Audio",
	Archives:      "Archive",
	Presentations: "Presentation",
}

// Groups returns all supported groups in display order.
func Groups() []Group {
	return []Group{Documents, Images, Videos, Audio, Archives, Presentations}
}

// GroupOf returns the group of a file name by its extension (case-insensitive).
func GroupOf(name string) (Group, bool) {
	g, ok := extensions[Extension(name)]
	return g, ok
}

// Extension returns the lower-cased extension including the dot.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Format returns the upper-cased extension without the dot (e.g. "PDF").
func Format(name string) string {
	return strings.ToUpper(strings.TrimPrefix(Extension(name), "."))
}

// IsValid checks if the group is one of the supported values.
func (g Group) IsValid() bool {
	_, ok := labels[g]
	return ok
}

// Label returns the display name of the group.
func (g Group) Label() string { return labels[g] }

// ContentType returns the record "type" value for files of the group.
func (g Group) ContentType() string { return contentTypes[g] }
