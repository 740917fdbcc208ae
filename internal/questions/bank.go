package questions

import (
	_ "embed"
	"fmt"
	"sync"

	"peerprep/interview/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var bankYAML []byte

type bankFile struct {
	Questions []models.Question `yaml:"questions"`
}

var (
	loadOnce sync.Once
	loaded   []models.Question
	loadErr  error
)

// Parse decodes a question bank and fills each time limit from its difficulty.
func Parse(data []byte) ([]models.Question, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if len(file.Questions) != models.QuestionsPerInterview {
		return nil, fmt.Errorf("question bank must hold %d questions, found %d",
			models.QuestionsPerInterview, len(file.Questions))
	}

	seen := make(map[int]bool, len(file.Questions))
	for i := range file.Questions {
		q := &file.Questions[i]
		if !q.Difficulty.Valid() {
			return nil, fmt.Errorf("question %d has unknown difficulty %q", q.ID, q.Difficulty)
		}
		if q.Prompt == "" {
			return nil, fmt.Errorf("question %d has no prompt", q.ID)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		q.TimeLimit = q.Difficulty.TimeLimit()
	}
	return file.Questions, nil
}

// Default returns a copy of the embedded question set.
func Default() ([]models.Question, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(bankYAML)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return append([]models.Question(nil), loaded...), nil
}
