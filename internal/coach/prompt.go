package coach

import _ "embed"

//go:embed prompts/system.md
var SystemPrompt string
