package assistant

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Moderation struct {
	Flagged    bool
	Categories []string
	Reason     string
}

type Summary struct {
	Summary   string
	KeyPoints []string
}

// Deal is an investment opportunity submitted for analysis.
type Deal struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Sector      string  `json:"sector"`
	Stage       string  `json:"stage"`
	TargetRaise float64 `json:"target_raise"`
	Valuation   float64 `json:"valuation"`
	Description string  `json:"description"`
}

type DealAnalysis struct {
	// Score is 0..10, 0 when the model gave none.
	Score          int
	Strengths      []string
	Risks          []string
	Recommendation string
}
