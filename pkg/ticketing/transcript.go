package ticketing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/google/uuid"
)

// nonTextPlaceholder stands in for messages with no text content, such as
// embed-only or attachment-only posts.
const nonTextPlaceholder = "[no text content]"

// BuildTranscript renders fetched channel history as a flat text transcript.
// The platform returns messages newest first; the transcript lists them
// chronologically, one `[timestamp] author: content` line per message, with
// attachment URLs indented beneath their message.
func BuildTranscript(msgs []*discordgo.Message) string {
	var sb strings.Builder

	for idx := len(msgs) - 1; idx >= 0; idx-- {
		m := msgs[idx]

		content := m.Content
		if content == "" {
			content = nonTextPlaceholder
		}

		sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", m.Timestamp.UTC().Format("2006-01-02 15:04:05"), m.Author.Username, content))
		for _, a := range m.Attachments {
			sb.WriteString(fmt.Sprintf("    attachment: %s\n", a.URL))
		}
	}
	return sb.String()
}

// writeTranscriptFile writes a transcript to a transient file and returns its
// path. The caller removes the file once it has been forwarded.
func writeTranscriptFile(channelName, transcript string) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.txt", channelName, uuid.NewString()))
	if err := os.WriteFile(path, []byte(transcript), 0o600); err != nil {
		return "", fmt.Errorf("error writing transcript file: %w", err)
	}
	return path, nil
}
