package llm

// GenerationParameters is the request body of /api/v1/generate.
type GenerationParameters struct {
	Prompt           string  `json:"prompt"`
	UseStory         bool    `json:"use_story"`
	UseMemory        bool    `json:"use_memory"`
	UseAuthorsNote   bool    `json:"use_authors_note"`
	UseWorldInfo     bool    `json:"use_world_info"`
	MaxContextLength int     `json:"max_context_length"`
	MaxLength        int     `json:"max_length"`
	RepPen           float64 `json:"rep_pen"`
	RepPenRange      int     `json:"rep_pen_range"`
	RepPenSlope      float64 `json:"rep_pen_slope"`
	Temperature      float64 `json:"temperature"`
	TFS              float64 `json:"tfs"`
	TopA             float64 `json:"top_a"`
	TopK             int     `json:"top_k"`
	TopP             float64 `json:"top_p"`
	Typical          float64 `json:"typical"`
	SamplerOrder     []int   `json:"sampler_order"`
}

// NewGenerationParameters wraps prompt in the fixed sampling defaults.
// The prompt is forwarded as-is, empty or not.
func NewGenerationParameters(prompt string) GenerationParameters {
	return GenerationParameters{
		Prompt:           prompt,
		MaxContextLength: DefaultMaxContextLength,
		MaxLength:        1024,
		RepPen:           1.1,
		RepPenRange:      256,
		RepPenSlope:      0.9,
		Temperature:      0.72,
		TFS:              0.9,
		TopA:             0,
		TopK:             0,
		TopP:             0.73,
		Typical:          1,
		SamplerOrder:     []int{6, 0, 1, 2, 3, 4, 5},
	}
}
