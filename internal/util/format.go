package util

import (
	"math"
	"path/filepath"
	"strings"
)

// Question file formats accepted by the upload endpoint.
const (
	FormatDelimited = "txt"
	FormatJSON      = "json"
)

const (
	DateFormat = "2006-01-02"
)

// DetectFormat resolves the question file format from the declared value,
// falling back to the uploaded filename's extension.
func DetectFormat(declared, filename string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case FormatDelimited, "text", "plain":
		return FormatDelimited, nil
	case FormatJSON:
		return FormatJSON, nil
	case "":
	default:
		return "", ErrUnsupportedFormat
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return FormatDelimited, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", ErrUnsupportedFormat
}

// Percent converts a correct/total pair into an accuracy percentage rounded
// to one decimal place.
func Percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
