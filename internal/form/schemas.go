package form

import (
	"strings"
	"time"
	"unicode/utf8"

	"voice-notes/internal/models"
)

func checkTitle(s string) string {
	switch {
	case strings.TrimSpace(s) == "":
		return "must be provided"
	case utf8.RuneCountInString(s) > models.MaxTitleLength:
		return "must be at most 200 characters"
	}
	return ""
}

func checkCategory(s string) string {
	if !models.Category(s).Valid() {
		return "must be one of General, Work, Personal, Ideas, To-Do"
	}
	return ""
}

func checkPriority(s string) string {
	if !models.Priority(s).Valid() {
		return "must be one of low, medium, high"
	}
	return ""
}

func checkDate(s string) string {
	if s == "" {
		return ""
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "must be a date (YYYY-MM-DD)"
	}
	return ""
}

// NoteForm is a note draft. Dictation replaces the content.
func NoteForm() *Form[models.NoteInput] {
	return New(Schema[models.NoteInput]{
		Fields: []Field{
			{Name: "title", Check: checkTitle},
			{Name: "content", Check: func(s string) string {
				if strings.TrimSpace(s) == "" {
					return "must be provided"
				}
				return ""
			}},
			{Name: "category", Default: string(models.CategoryGeneral), Check: checkCategory},
		},
		Apply: func(v Values, transcript string) {
			v["content"] = transcript
		},
		Build: func(v Values) (models.NoteInput, error) {
			return models.NoteInput{
				Title:    strings.TrimSpace(v["title"]),
				Content:  v["content"],
				Category: models.Category(v["category"]),
			}, nil
		},
	})
}

// TaskForm is a new task draft. Dictation up to the first period becomes the
// title and the rest the description. Text without a period becomes the title
// and clears the description.
func TaskForm() *Form[models.TaskInput] {
	return New(Schema[models.TaskInput]{
		Fields: taskFields(models.Task{Priority: models.PriorityMedium}),
		Apply: func(v Values, transcript string) {
			if splitTaskTranscript(v, transcript) {
				return
			}
			v["title"] = transcript
			v["description"] = ""
		},
		Build: func(v Values) (models.TaskInput, error) {
			in := models.TaskInput{
				Title:       strings.TrimSpace(v["title"]),
				Description: v["description"],
				Priority:    models.Priority(v["priority"]),
			}
			d, err := parseDue(v["dueDate"])
			if err != nil {
				return models.TaskInput{}, err
			}
			in.DueDate = d
			return in, nil
		},
	})
}

// EditTaskForm starts from t and builds a patch that rewrites every editable
// field. Dictation with a period splits like TaskForm. Text without one fills
// the title while it is empty and replaces the description otherwise. Reset
// returns to the values of t.
func EditTaskForm(t models.Task) *Form[models.TaskPatch] {
	return New(Schema[models.TaskPatch]{
		Fields: taskFields(t),
		Apply: func(v Values, transcript string) {
			if splitTaskTranscript(v, transcript) {
				return
			}
			if strings.TrimSpace(v["title"]) == "" {
				v["title"] = transcript
				return
			}
			v["description"] = transcript
		},
		Build: func(v Values) (models.TaskPatch, error) {
			title := strings.TrimSpace(v["title"])
			desc := v["description"]
			priority := models.Priority(v["priority"])
			p := models.TaskPatch{Title: &title, Description: &desc, Priority: &priority}
			d, err := parseDue(v["dueDate"])
			if err != nil {
				return models.TaskPatch{}, err
			}
			if d == nil {
				p.ClearDueDate = true
			}
			p.DueDate = d
			return p, nil
		},
	})
}

func taskFields(t models.Task) []Field {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.UTC().Format(time.DateOnly)
	}
	return []Field{
		{Name: "title", Default: t.Title, Check: checkTitle},
		{Name: "description", Default: t.Description},
		{Name: "priority", Default: string(t.Priority), Check: checkPriority},
		{Name: "dueDate", Default: due, Check: checkDate},
	}
}

func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// splitTaskTranscript puts the text before the first period in the title and
// the rest in the description. A leading period does not split.
func splitTaskTranscript(v Values, transcript string) bool {
	i := strings.Index(transcript, ".")
	if i <= 0 {
		return false
	}
	v["title"] = strings.TrimSpace(transcript[:i])
	v["description"] = strings.TrimSpace(transcript[i+1:])
	return true
}
