package utils

import (
	"time"
)

const (
	headerTimestampLayout   = "2006-01-02 15:04:05"
	fileNameTimestampLayout = "20060102_150405"
)

// FormatHeaderTimestamp renders the generation time written into a merged document.
func FormatHeaderTimestamp(value time.Time) string {
	return value.Format(headerTimestampLayout)
}

// FormatFileNameTimestamp renders a timestamp safe to embed in file names.
func FormatFileNameTimestamp(value time.Time) string {
	return value.Format(fileNameTimestampLayout)
}
