package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/qaforge/qaforge/pkg/qa"
)

const separatorWidth = 100

// WriteText renders a corpus as a plain-text report: a profile header
// followed by one numbered section per record, in corpus order. This is a
// presentation format only and is never re-parsed.
func WriteText(w io.Writer, corpus *qa.Corpus) error {
	sep := strings.Repeat("=", separatorWidth)

	profileID := corpus.Profile.UserID
	if profileID == "" {
		profileID = "unknown"
	}

	header := fmt.Sprintf("PROFILE: %s\n%s\n\n", profileID, sep)
	header += fmt.Sprintf("URL: %s\n", valueOr(corpus.Profile.URL, "N/A"))
	header += fmt.Sprintf("Claimed answers: %s\n", claimedOr(corpus.Profile.AnswersClaimed, "N/A"))
	header += fmt.Sprintf("Unique answers extracted: %d\n", len(corpus.Records))
	header += fmt.Sprintf("\n%s\n\n", sep)

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	for i, rec := range corpus.Records {
		section := fmt.Sprintf("\n%s\nANSWER #%d\n%s\n", sep, i+1, sep)
		section += fmt.Sprintf("\nQUESTION:\n%s\n", rec.Question)
		section += fmt.Sprintf("\nANSWER:\n%s\n", rec.Answer)

		if _, err := io.WriteString(w, section); err != nil {
			return err
		}
	}

	return nil
}

// RenderText renders a corpus report into a string
func RenderText(corpus *qa.Corpus) string {
	var b strings.Builder
	_ = WriteText(&b, corpus) // strings.Builder writes never fail
	return b.String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func claimedOr(n int, fallback string) string {
	if n <= 0 {
		return fallback
	}
	return fmt.Sprintf("%d", n)
}
