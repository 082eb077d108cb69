package httpapi

import (
	"fmt"
	"strings"

	"cfwai/internal/model"
)

// parseEnqueueMessage parses the "<CREATOR> :: <YYYYMMDD> :: <TITLE>\n\n<URL>"
// wire format accepted by POST /enqueue (spec.md §6).
func parseEnqueueMessage(raw string) (model.Item, error) {
	header, url, ok := strings.Cut(raw, "\n\n")
	if !ok {
		return model.Item{}, fmt.Errorf("message missing blank-line separated URL")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return model.Item{}, fmt.Errorf("message missing URL")
	}

	parts := strings.SplitN(header, "::", 3)
	if len(parts) != 3 {
		return model.Item{}, fmt.Errorf("message header must be CREATOR :: DATECODE :: TITLE")
	}
	creator := strings.TrimSpace(parts[0])
	datecode := strings.TrimSpace(parts[1])
	title := strings.TrimSpace(parts[2])
	if creator == "" || datecode == "" || title == "" {
		return model.Item{}, fmt.Errorf("message header has an empty field")
	}

	return model.Item{Creator: creator, Title: title, Datecode: datecode, URL: url}, nil
}
