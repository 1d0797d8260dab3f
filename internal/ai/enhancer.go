package ai

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/khanhtoandng/me-sub001/pkg/logger"
	"github.com/microcosm-cc/bluemonday"
)

// ContentType selects the prompt template.
type ContentType string

const (
	TypeHero       ContentType = "hero"
	TypeFooter     ContentType = "footer"
	TypeProject    ContentType = "project"
	TypeExperience ContentType = "experience"
	TypeGeneral    ContentType = "general"
)

type Action string

const (
	ActionEnhance     Action = "enhance"
	ActionSuggestions Action = "suggestions"
	ActionVariations  Action = "variations"
)

const (
	MaxTextLength    = 5000
	DefaultVariation = 3
	MaxVariations    = 5
)

// Request is the body of POST /api/ai/enhance.
type Request struct {
	Text   string      `json:"text"`
	Type   ContentType `json:"type"`
	Action Action      `json:"action"`
	Count  int         `json:"count,omitempty"`
}

// Result holds exactly one populated field, depending on the action.
type Result struct {
	Text        string   `json:"text,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Variations  []string `json:"variations,omitempty"`
}

// InvalidRequestError reports a bad enhancement request.
type InvalidRequestError struct{ Message string }

func (e *InvalidRequestError) Error() string { return e.Message }

var typeContext = map[ContentType]string{
	TypeHero:       "the hero section of a software engineer's personal portfolio website. It should be concise, confident and memorable",
	TypeFooter:     "the footer of a personal portfolio website. It should be short, friendly and invite visitors to get in touch",
	TypeProject:    "a project description in a developer portfolio. It should explain the problem, the solution and the technologies used",
	TypeExperience: "a work experience entry in a developer portfolio. It should highlight responsibilities, impact and measurable achievements",
	TypeGeneral:    "a personal portfolio website",
}

var textPolicy = bluemonday.StrictPolicy()

// Enhancer builds prompts and post-processes generated text.
type Enhancer struct {
	gen Generator
}

func NewEnhancer(gen Generator) *Enhancer {
	return &Enhancer{gen: gen}
}

// Normalize fills defaults and checks the request.
func (r *Request) Normalize() error {
	r.Text = strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(r.Text)))
	if r.Text == "" {
		return &InvalidRequestError{Message: "text is required"}
	}
	if len([]rune(r.Text)) > MaxTextLength {
		return &InvalidRequestError{Message: fmt.Sprintf("text must be at most %d characters", MaxTextLength)}
	}
	if r.Type == "" {
		r.Type = TypeGeneral
	}
	if _, ok := typeContext[r.Type]; !ok {
		return &InvalidRequestError{Message: "type must be one of: hero, footer, project, experience, general"}
	}
	switch r.Action {
	case "":
		r.Action = ActionEnhance
	case ActionEnhance, ActionSuggestions:
	case ActionVariations:
		if r.Count == 0 {
			r.Count = DefaultVariation
		}
		if r.Count < 1 || r.Count > MaxVariations {
			return &InvalidRequestError{Message: fmt.Sprintf("count must be between 1 and %d", MaxVariations)}
		}
	default:
		return &InvalidRequestError{Message: "action must be one of: enhance, suggestions, variations"}
	}
	return nil
}

// Prompt renders the template for the request.
func Prompt(r Request) string {
	ctx := typeContext[r.Type]
	switch r.Action {
	case ActionSuggestions:
		return fmt.Sprintf("You are reviewing text written for %s.\n"+
			"Give 3 to 5 specific suggestions to improve it, as a numbered list, one suggestion per line, without any introduction.\n\n"+
			"Text:\n%s", ctx, r.Text)
	case ActionVariations:
		return fmt.Sprintf("Write %d alternative versions of the following text for %s.\n"+
			"Keep the meaning and roughly the same length. Return only a numbered list, one version per line.\n\n"+
			"Text:\n%s", r.Count, ctx, r.Text)
	}
	return fmt.Sprintf("Improve the following text for %s.\n"+
		"Fix grammar, tighten the wording and keep the original meaning and language. "+
		"Return only the improved text without quotes or commentary.\n\n"+
		"Text:\n%s", ctx, r.Text)
}

// Enhance normalizes r in place, so callers see the defaulted type and action.
func (e *Enhancer) Enhance(ctx context.Context, r *Request) (*Result, error) {
	if err := r.Normalize(); err != nil {
		return nil, err
	}
	out, err := e.gen.Generate(ctx, Prompt(*r))
	if err != nil {
		return nil, err
	}
	logger.Debugf("ai: %s/%s generated %d chars", r.Type, r.Action, len(out))
	switch r.Action {
	case ActionSuggestions:
		return &Result{Suggestions: ParseList(out)}, nil
	case ActionVariations:
		items := ParseList(out)
		if len(items) > r.Count {
			items = items[:r.Count]
		}
		return &Result{Variations: items}, nil
	}
	return &Result{Text: strings.TrimSpace(out)}, nil
}

var listMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+`)

// ParseList splits generated text into items, one per line, dropping list
// markers, surrounding quotes and blank lines.
func ParseList(s string) []string {
	items := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		line = listMarker.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `"`))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
