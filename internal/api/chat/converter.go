package chat

import "fmt"

// exportFilename builds the download name for a conversation export.
func exportFilename(conversationID, extension string) string {
	short := conversationID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("conversation-%s%s", short, extension)
}
