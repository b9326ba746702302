package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/okr"
)

// PromptHint is the answer to an empty question.
const PromptHint = "Ask me something about your objectives, for example which one needs attention first."

// Observer is told about every completion.
type Observer func(latency time.Duration, err error)

// User is who is asking.
type User struct {
	ID   int64
	Name string
	Role models.Role
}

// Assistant answers questions about a user's objectives. It always returns
// text; failures become a readable message instead of an error.
type Assistant struct {
	completer Completer
	observer  Observer
	history   *History
	logger    *slog.Logger
	clock     func() time.Time
}

func New(completer Completer, observer Observer) *Assistant {
	if completer == nil {
		completer = Disabled{}
	}
	if observer == nil {
		observer = func(time.Duration, error) {}
	}
	return &Assistant{
		completer: completer,
		observer:  observer,
		history:   NewHistory(50),
		logger:    slog.Default(),
		clock:     time.Now,
	}
}

// WithLogger sets the logger that receives provider error details.
func (a *Assistant) WithLogger(logger *slog.Logger) *Assistant {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// History exposes the conversation log.
func (a *Assistant) History() *History { return a.history }

// Ask answers prompt with the user's objectives as context and records both
// sides of the exchange in the user's history.
func (a *Assistant) Ask(ctx context.Context, user User, objectives []okr.ObjectiveView, prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return PromptHint
	}

	a.history.Append(user, Message{Role: RoleUser, Content: prompt, At: a.clock()})

	start := a.clock()
	answer, err := a.completer.Complete(ctx, CompletionRequest{
		System: SystemPrompt(user, objectives),
		Prompt: prompt,
	})
	a.observer(a.clock().Sub(start), err)
	if err != nil {
		a.logger.Warn("assistant call failed",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		answer = failureMessage(err)
	}

	a.history.Append(user, Message{Role: RoleAssistant, Content: answer, At: a.clock()})
	return answer
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrDisabled):
		return "The assistant is not configured on this server."
	case errors.Is(err, ErrTimeout):
		return "The assistant took too long to answer. Please try again."
	case errors.Is(err, ErrUnavailable):
		return "The assistant service is unreachable right now. Please try again later."
	default:
		return "The assistant could not answer right now. Please try again later."
	}
}

// SystemPrompt describes the user's role and objectives to the model.
func SystemPrompt(user User, objectives []okr.ObjectiveView) string {
	var sb strings.Builder
	sb.WriteString("You are a strategic OKR consultant inside a company objective tracker. ")
	sb.WriteString("Answer briefly and concretely, using only the data below.\n")
	fmt.Fprintf(&sb, "The user is %s and has the role %s.\n", user.Name, user.Role)
	if user.Role == models.RoleManager {
		sb.WriteString("As a manager they care about team alignment with corporate objectives.\n")
	}

	if len(objectives) == 0 {
		sb.WriteString("The user has no objectives registered.\n")
		return sb.String()
	}

	sb.WriteString("Their objectives:\n")
	for _, v := range objectives {
		fmt.Fprintf(&sb, "- [%d] %s (%d, %s, %d%% complete, linked to %q)",
			v.Objective.Year, v.Objective.Name, v.Objective.ID, v.Objective.Status, v.Percent, v.ParentName)
		if v.Objective.Description != "" {
			fmt.Fprintf(&sb, ": %s", v.Objective.Description)
		}
		sb.WriteString("\n")
		for _, t := range v.Tasks {
			fmt.Fprintf(&sb, "    * %s [%s]\n", t.Name, t.Status)
		}
	}
	return sb.String()
}
