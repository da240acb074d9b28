package pccimporter

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/pccdata/internal/pcc"
	apperrors "github.com/louisbranch/pccdata/internal/platform/errors"
	"github.com/louisbranch/pccdata/internal/platform/errors/i18n"
	"github.com/louisbranch/pccdata/internal/storage"
)

// toImportInput flattens a loaded dictionary into the rows the content store
// persists. Entries keep dictionary name order.
func toImportInput(sourcePath string, dict *pcc.Dictionary) storage.ImportInput {
	input := storage.ImportInput{
		SourcePath: sourcePath,
		CreatedAt:  time.Now().UTC(),
	}
	for _, name := range dict.Names() {
		datum, ok := dict.Get(name)
		if !ok {
			continue
		}
		if text, ok := datum.Text(); ok {
			input.Texts = append(input.Texts, storage.TextEntry{
				Tag:   name,
				Kind:  datum.Kind().String(),
				Value: text,
			})
			continue
		}
		input.Lists = append(input.Lists, storage.ListEntry{
			Tag:     name,
			Records: datum.Records(),
		})
	}
	return input
}

// Describe renders err for the terminal. Coded errors use the message
// catalog for locale, followed by any metadata not already in the message.
func Describe(err error, locale string) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}

	metadata := apperrors.MetadataOf(err)
	msg := i18n.GetCatalog(locale).Format(string(appErr.Code), metadata)
	if msg == string(appErr.Code) {
		return err.Error()
	}

	var extra []string
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "path" || key == "line" {
			continue
		}
		if value := metadata[key]; value != "" && !strings.Contains(msg, value) {
			extra = append(extra, key+"="+value)
		}
	}
	if len(extra) > 0 {
		msg += " (" + strings.Join(extra, ", ") + ")"
	}
	if appErr.Cause != nil {
		msg += ": " + appErr.Cause.Error()
	}
	return msg
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return apperrors.CodeOf(err).ExitCode()
}
