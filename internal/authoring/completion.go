package authoring

import (
	"fmt"

	"coursestudio/internal/models"
)

// Banner: плашка о готовности к публикации над формой курса или раздела.
type Banner struct {
	Complete    bool
	Title       string
	Description string
}

func CompletionMessage(c models.Completion) string {
	return fmt.Sprintf("отсутствуют %d из %d обязательных полей", len(c.Missing), c.Required)
}

func NewBanner(c models.Completion) Banner {
	b := Banner{Complete: c.IsComplete(), Title: CompletionMessage(c)}
	if b.Complete {
		b.Description = MsgCompleteReady
	} else {
		b.Description = MsgCompleteMissing
	}
	return b
}
