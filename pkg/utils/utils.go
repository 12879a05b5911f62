package utils

import (
	"regexp"
	"strings"
)

var reportIdxPattern = regexp.MustCompile(`report_idx=(\d+)`)

// ToPointer returns a pointer to the given value.
func ToPointer[T any](v T) *T {
	return &v
}

// ExtractReportID pulls the external report identifier out of an attachment
// URL, e.g. "https://…/downpdf?report_idx=644830" -> "644830". Returns ""
// when no identifier is present.
func ExtractReportID(attachmentURL string) string {
	if m := reportIdxPattern.FindStringSubmatch(attachmentURL); m != nil {
		return m[1]
	}
	return ""
}

// ReportIDFromFilename strips the ".pdf" suffix from a downloaded report
// filename, e.g. "644830.pdf" -> "644830".
func ReportIDFromFilename(filename string) string {
	return strings.TrimSuffix(filename, ".pdf")
}
