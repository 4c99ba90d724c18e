package model

// Known LLM workers.
const (
	LLMClaudeSonnet = "Claude Sonnet 4.5"
	LLMGPT4         = "GPT-4"
	LLMKimiK2       = "Kimi K2"
)

// KnownLLMs is the fixed set of workers tasks and steps are attributed to.
var KnownLLMs = []string{LLMClaudeSonnet, LLMGPT4, LLMKimiK2}

// KnownLLM returns true if the name is one of the known workers.
func KnownLLM(name string) bool {
	for _, l := range KnownLLMs {
		if l == name {
			return true
		}
	}
	return false
}
