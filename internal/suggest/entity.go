package suggest

// Mode selects what kind of text to generate.
type Mode string

const (
	ModeDraftDescription Mode = "draft_description"
	ModeDailyPlan        Mode = "daily_plan"
)

// Source records which generator actually produced the text.
type Source string

const (
	SourceLive Source = "live"
	SourceStub Source = "stub"
)

type Request struct {
	Mode  Mode   `json:"mode"`
	Title string `json:"title,omitempty"`
}

// Result carries the generated text together with its provenance, so callers
// can always tell a live completion from a canned one.
type Result struct {
	Mode       Mode   `json:"mode"`
	Suggestion string `json:"suggestion"`
	Source     Source `json:"source"`
}
