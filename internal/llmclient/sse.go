package llmclient

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// scanSSE reads `data: <json>` lines from r, emitting one StreamChunk per
// delta and terminating on `data: [DONE]`. Lines that are not SSE data
// frames (blank lines, comments, "event:" lines) are ignored.
func scanSSE(r io.Reader, ch chan<- StreamChunk) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			ch <- StreamChunk{Done: true}
			return nil
		}

		var parsed chatCompletionResponse
		if err := json.Unmarshal([]byte(data), &parsed); err != nil {
			continue
		}
		if len(parsed.Choices) == 0 {
			continue
		}
		choice := parsed.Choices[0]
		content := ""
		if choice.Delta != nil {
			content = choice.Delta.Content
		} else if choice.Message != nil {
			content = choice.Message.Content
		}
		if content != "" {
			ch <- StreamChunk{Content: content}
		}
	}
	return scanner.Err()
}
