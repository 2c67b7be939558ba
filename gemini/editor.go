package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/structguard/structguard"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Editor implements structguard.Editor at compile time.
var _ structguard.Editor = (*Editor)(nil)

// Editor implements structguard.Editor using Google Gemini. The model
// only ever sees the flat map, never the document, so it cannot damage
// structure no matter what it returns.
type Editor struct {
	client *genai.Client
}

// NewEditor creates a new Editor.
func NewEditor(client *genai.Client) *Editor {
	return &Editor{client: client}
}

// Edit rewrites every segment value per the instruction and returns a
// new flat map with the same ids in the same order. Returns EINTERNAL
// when the model's reply drifts from the segment set.
func (e *Editor) Edit(ctx context.Context, flatMap *structguard.FlatMap, instruction string) (*structguard.FlatMap, error) {
	if instruction == "" {
		return nil, structguard.Errorf(structguard.EINVALID, "instruction required")
	}
	if flatMap == nil || flatMap.Len() == 0 {
		return structguard.NewFlatMap(), nil
	}

	prompt, err := BuildEditPrompt(flatMap, instruction)
	if err != nil {
		return nil, err
	}
	config := BuildConfig()

	result, err := e.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, structguard.Errorf(structguard.EINTERNAL, "gemini returned nil result")
	}

	return ParseEditReply(flatMap, result.Text())
}

// BuildConfig returns the GenerateContentConfig for edit calls. The
// system instruction pins the model to the segment contract; JSON output
// mode keeps the reply parseable.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a text editor. You receive a JSON object mapping segment ids to text segments extracted from a document. Apply the instruction to the text of each segment. Reply with ONLY a JSON object containing exactly the same keys, each mapped to the edited text. Never add, remove or rename keys. Never emit markup, commentary or code fences. Leave a segment unchanged if the instruction does not apply to it.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildEditPrompt builds the user prompt containing the segments and the
// instruction. Segments are serialized in flat-map order.
func BuildEditPrompt(flatMap *structguard.FlatMap, instruction string) (string, error) {
	segments, err := json.Marshal(flatMap)
	if err != nil {
		return "", structguard.Errorf(structguard.EINTERNAL, "encode segments: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("<segments>\n")
	sb.Write(segments)
	sb.WriteString("\n</segments>\n\n")
	fmt.Fprintf(&sb, "Instruction: %s", instruction)
	return sb.String(), nil
}

// ParseEditReply parses the model's reply into a flat map ordered like
// the original. Any drift in the id set, or any non-string value, is an
// EINTERNAL error: a reply we cannot trust is a reply we discard.
func ParseEditReply(original *structguard.FlatMap, reply string) (*structguard.FlatMap, error) {
	reply = strings.TrimSpace(reply)
	// models occasionally fence JSON despite instructions
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	if !gjson.Valid(reply) {
		return nil, structguard.Errorf(structguard.EINTERNAL, "editor reply is not valid JSON")
	}
	parsed := gjson.Parse(reply)
	if !parsed.IsObject() {
		return nil, structguard.Errorf(structguard.EINTERNAL, "editor reply is not a JSON object")
	}

	values := make(map[string]gjson.Result, original.Len())
	unknown := ""
	parsed.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if !original.Has(id) {
			unknown = id
			return false
		}
		values[id] = value
		return true
	})
	if unknown != "" {
		return nil, structguard.Errorf(structguard.EINTERNAL, "editor reply added unknown segment %q", unknown)
	}

	edited := structguard.NewFlatMap()
	for _, id := range original.IDs() {
		value, ok := values[id]
		if !ok {
			return nil, structguard.Errorf(structguard.EINTERNAL, "editor reply dropped segment %q", id)
		}
		if value.Type != gjson.String {
			return nil, structguard.Errorf(structguard.EINTERNAL, "editor reply replaced %q with a non-string value", id)
		}
		edited.Set(id, value.String())
	}
	return edited, nil
}
