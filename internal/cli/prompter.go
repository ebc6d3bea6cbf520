package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rosterflow/rosterflow/internal/engine"
	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/staging"
	"github.com/schollz/progressbar/v3"
)

// Prompter implements the interactive review interface for staged voice
// commands.
type Prompter struct {
	writer      io.Writer
	reader      *NonBlockingReader
	progressBar *progressbar.ProgressBar
	committing  bool
}

// NewPrompter creates a prompter over the given reader and writer.
// Nil arguments default to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// ReviewBatch renders the batch and reads one review decision.
func (p *Prompter) ReviewBatch(ctx context.Context, batch model.Batch, counts staging.Counts) (engine.ReviewDecision, error) {
	select {
	case <-ctx.Done():
		return engine.ReviewDecision{}, ctx.Err()
	default:
	}

	fmt.Fprintln(p.writer, RenderBox("Heard: "+batch.Transcript, p.formatBatch(batch, counts)))

	for {
		fmt.Fprintln(p.writer, SubtleStyle.Render("  [c N] confirm  [r N] reject  [e N] edit  [a] confirm all  [y] apply confirmed  [q] cancel all"))
		line, err := p.readLine(ctx, "Review")
		if err != nil {
			return engine.ReviewDecision{}, err
		}

		decision, ok, err := p.parseDecision(ctx, batch, line)
		if err != nil {
			return engine.ReviewDecision{}, err
		}
		if ok {
			return decision, nil
		}
		fmt.Fprintln(p.writer, FormatWarning("Didn't understand that, try again."))
	}
}

// parseDecision maps one input line onto a review decision. The second
// return is false when the line is unusable and the user should retry.
func (p *Prompter) parseDecision(ctx context.Context, batch model.Batch, line string) (engine.ReviewDecision, bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return engine.ReviewDecision{}, false, nil
	}

	switch fields[0] {
	case "a", "all":
		return engine.ReviewDecision{Action: engine.ActionConfirmAll}, true, nil
	case "y", "apply", "commit":
		return engine.ReviewDecision{Action: engine.ActionCommit}, true, nil
	case "q", "cancel":
		if p.committing {
			return engine.ReviewDecision{}, false, nil
		}
		return engine.ReviewDecision{Action: engine.ActionCancelAll}, true, nil
	case "c", "r", "e":
		if len(fields) < 2 {
			return engine.ReviewDecision{}, false, nil
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(batch.Candidates) {
			return engine.ReviewDecision{}, false, nil
		}
		candidate := batch.Candidates[n-1]

		switch fields[0] {
		case "c":
			if candidate.Status != model.StatusPending {
				fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("#%d is already %s.", n, strings.ToLower(string(candidate.Status)))))
				return engine.ReviewDecision{}, false, nil
			}
			return engine.ReviewDecision{Action: engine.ActionConfirm, CandidateID: candidate.ID}, true, nil
		case "r":
			if candidate.Status != model.StatusPending {
				fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("#%d is already %s.", n, strings.ToLower(string(candidate.Status)))))
				return engine.ReviewDecision{}, false, nil
			}
			return engine.ReviewDecision{Action: engine.ActionReject, CandidateID: candidate.ID}, true, nil
		default:
			if candidate.Status != model.StatusPending {
				fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("#%d is already %s.", n, strings.ToLower(string(candidate.Status)))))
				return engine.ReviewDecision{}, false, nil
			}
			payload, err := p.editPayload(ctx, candidate)
			if err != nil {
				return engine.ReviewDecision{}, false, err
			}
			return engine.ReviewDecision{Action: engine.ActionEdit, CandidateID: candidate.ID, Payload: payload}, true, nil
		}
	default:
		return engine.ReviewDecision{}, false, nil
	}
}

// editPayload prompts field by field for a replacement payload. Empty
// input keeps the current value; "q" at any field abandons the edit and
// returns a nil payload.
func (p *Prompter) editPayload(ctx context.Context, candidate model.Candidate) (model.CommandPayload, error) {
	fmt.Fprintln(p.writer, InfoStyle.Render("Editing: "+candidate.Payload.Summary()))
	fmt.Fprintln(p.writer, SubtleStyle.Render("  Enter keeps the current value, q abandons the edit."))

	abandoned := false
	field := func(name, current string) (string, error) {
		if abandoned {
			return current, nil
		}
		value, err := p.readLine(ctx, fmt.Sprintf("%s [%s]", name, current))
		if err != nil {
			return "", err
		}
		if strings.EqualFold(value, "q") {
			abandoned = true
			return current, nil
		}
		if value == "" {
			return current, nil
		}
		return value, nil
	}

	intField := func(name string, current int) (int, error) {
		for {
			value, err := field(name, strconv.Itoa(current))
			if err != nil {
				return 0, err
			}
			if abandoned {
				return current, nil
			}
			n, convErr := strconv.Atoi(value)
			if convErr == nil {
				return n, nil
			}
			fmt.Fprintln(p.writer, FormatWarning("Enter a number."))
		}
	}

	var payload model.CommandPayload
	var err error

	switch current := candidate.Payload.(type) {
	case model.RulePayload:
		edited := current
		if edited.Category, err = field("category", current.Category); err != nil {
			return nil, err
		}
		if edited.Description, err = field("description", current.Description); err != nil {
			return nil, err
		}
		if edited.Priority, err = intField("priority", current.Priority); err != nil {
			return nil, err
		}
		payload = edited
	case model.StaffPayload:
		edited := current
		if edited.Name, err = field("name", current.Name); err != nil {
			return nil, err
		}
		if edited.Role, err = field("role", current.Role); err != nil {
			return nil, err
		}
		if edited.WeeklyHours, err = intField("weekly hours", current.WeeklyHours); err != nil {
			return nil, err
		}
		payload = edited
	case model.MoveSessionPayload:
		edited := current
		if edited.Staff, err = field("staff", current.Staff); err != nil {
			return nil, err
		}
		if edited.ToDay, err = field("new day", current.ToDay); err != nil {
			return nil, err
		}
		if edited.ToStart, err = field("new start", current.ToStart); err != nil {
			return nil, err
		}
		payload = edited
	case model.CancelSessionPayload:
		edited := current
		if edited.Staff, err = field("staff", current.Staff); err != nil {
			return nil, err
		}
		if edited.Reason, err = field("reason", current.Reason); err != nil {
			return nil, err
		}
		payload = edited
	default:
		return nil, fmt.Errorf("cannot edit payload of kind %q", candidate.Kind)
	}

	if abandoned {
		return nil, nil
	}
	if err := payload.Validate(); err != nil {
		fmt.Fprintln(p.writer, FormatWarning("Edit discarded: "+err.Error()))
		return nil, nil
	}
	return payload, nil
}

// ShowCommitResult prints the consolidated commit outcome. Failed
// candidates stay listed so they can be retried or abandoned.
func (p *Prompter) ShowCommitResult(result engine.CommitResult) {
	p.committing = false
	if p.progressBar != nil {
		_ = p.progressBar.Finish()
		p.progressBar = nil
		fmt.Fprintln(p.writer)
	}

	if len(result.Failed) == 0 {
		fmt.Fprintln(p.writer, FormatSuccess(fmt.Sprintf("Applied %d command(s).", len(result.Succeeded))))
		return
	}

	fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("%d of %d failed to apply:", len(result.Failed), result.Attempted())))
	for _, failure := range result.Failed {
		fmt.Fprintf(p.writer, "  %s %s: %v\n", ErrorIcon, failure.Candidate.Payload.Summary(), failure.Err)
	}
	fmt.Fprintln(p.writer, InfoStyle.Render("Failed commands are still staged; apply again to retry or q to abandon them."))
}

// ShowMessage prints an informational message.
func (p *Prompter) ShowMessage(msg string) {
	fmt.Fprintln(p.writer, InfoStyle.Render(msg))
}

// CommitProgress advances the commit progress bar; wire it to the
// committer's progress callback. Cancel input is refused while a commit
// is in flight.
func (p *Prompter) CommitProgress(done, total int) {
	p.committing = done < total
	if p.progressBar == nil {
		p.progressBar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionSetDescription("Applying"),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.progressBar.Set(done)
}

func (p *Prompter) formatBatch(batch model.Batch, counts staging.Counts) string {
	var sb strings.Builder

	for _, warning := range batch.GlobalWarnings {
		sb.WriteString(FormatWarning(warning) + "\n")
	}
	if len(batch.GlobalWarnings) > 0 {
		sb.WriteString("\n")
	}

	for i, candidate := range batch.Candidates {
		fmt.Fprintf(&sb, "%s %d. %s %s\n",
			statusIcon(candidate.Status),
			i+1,
			candidate.Payload.Summary(),
			SubtleStyle.Render(fmt.Sprintf("(%.0f%%)", candidate.Confidence*100)))
		for _, warning := range candidate.Warnings {
			sb.WriteString("      " + WarningStyle.Render(WarningIcon+" "+warning) + "\n")
		}
	}

	fmt.Fprintf(&sb, "\n%s",
		SubtleStyle.Render(fmt.Sprintf("%d pending · %d confirmed · %d rejected",
			counts.Pending, counts.Confirmed, counts.Rejected)))

	return sb.String()
}

func statusIcon(status model.CandidateStatus) string {
	switch status {
	case model.StatusConfirmed:
		return SuccessStyle.Render(SuccessIcon)
	case model.StatusRejected:
		return ErrorStyle.Render(ErrorIcon)
	case model.StatusEditing:
		return WarningStyle.Render("✎")
	default:
		return SubtleStyle.Render("·")
	}
}

func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.writer, FormatPrompt(prompt))
	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}
