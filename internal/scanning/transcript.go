package scanning

import (
	"fmt"
	"strings"
)

// noTextMarker is what the vision models are told to answer for an image
// without any legible text
const noTextMarker = "NO_TEXT"

// transcriptionPrompt is the shared prompt used by the LLM backends
func transcriptionPrompt(language string) string {
	return fmt.Sprintf(`You are an OCR engine. Transcribe every line of text visible in the image.

Rules:
- Output one line of text per line, top to bottom, in reading order
- Copy the text exactly as printed; do not translate, correct or summarize
- The text is expected to be in the language with Tesseract code %q
- Do not number the lines or add bullets, headings or commentary
- Do not use markdown code blocks
- If the image contains no legible text, answer with exactly %s`, language, noTextMarker)
}

// cleanTranscript strips the wrapping an LLM sometimes adds around a
// transcription and maps the no-text marker to an empty string
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		// Drop the opening fence along with any language tag
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	if text == noTextMarker {
		return ""
	}
	return text
}
