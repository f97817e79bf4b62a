package record

// Well-known content fields.
const (
	FieldID           = "id"
	FieldTitle        = "title"
	FieldAuthor       = "author"
	FieldTags         = "tags"
	FieldDescription  = "description"
	FieldType         = "type"
	FieldCategory     = "category"
	FieldFormat       = "format"
	FieldStatus       = "status"
	FieldUploadDate   = "uploadDate"
	FieldLastModified = "lastModified"
	FieldSize         = "size" // bytes
	FieldDownloads    = "downloads"
	FieldViews        = "views"
	FieldThumbnail    = "thumbnail"
	FieldCollection   = "collection"
	FieldRights       = "rightsInfo"
	FieldChecksum     = "checksum"
	FieldScore        = "score"
)

// Status is the publication state of a content record.
type Status string

// Publication states.
const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// StatusOf returns the record's publication status ("" when absent).
func StatusOf(r Record) Status {
	s, _ := r.Get(FieldStatus).Str()
	return Status(s)
}
