package prompts

import (
	"fmt"
	"strings"
)

func init() {
	RegisterSpec(Spec{
		Name:    PromptNarration,
		Version: 1,
		System: `You write spoken narration for objects in educational 3D scenes. The
narration is read aloud by text-to-speech, so it must sound natural
when spoken.`,
		User: `Write a 2-3 sentence explanation for a 3D model in an educational scene.

Context: the user uploaded a document about "{{.Title}}".
Model: {{.ItemName}}{{if .ItemDescription}} - {{.ItemDescription}}{{end}}

Requirements:
- Start with "This {{.ItemName}} represents..."
- Directly connect the model to concepts from the document
- Tone: friendly, clear, accessible (suitable for users with ADHD/dyslexia)
- Keep under 50 words
- Do not use complex jargon

Output only the narration text, nothing else.`,
		Validators: []Validator{
			func(in Input) error {
				if strings.TrimSpace(in.ItemName) == "" {
					return fmt.Errorf("empty item name")
				}
				return nil
			},
		},
	})
}
