package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aretw0/talentscout/internal/presentation/graph"
	"github.com/aretw0/talentscout/internal/presentation/tui"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/report"
)

// ListSessions prints one row per stored session.
func ListSessions(ctx context.Context, comps *Components, w io.Writer) error {
	ids, err := comps.Sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tPHASE\tPROGRESS\tUPDATED")
	for _, id := range ids {
		state, err := comps.Sessions.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(tw, "%s\t<unreadable>\t-\t-\n", id)
			comps.Logger.Warn("failed to load session", "session_id", id, "err", err)
			continue
		}
		progress := fmt.Sprintf("%d/%d answers", len(state.Answers), len(state.Questions))
		if state.Questions == nil {
			progress = fmt.Sprintf("info %d/%d", state.Stage, len(domain.InfoStages))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, state.Phase, progress, state.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

// InspectSession prints the stored state as indented JSON.
func InspectSession(ctx context.Context, comps *Components, sessionID string, w io.Writer) error {
	state, err := comps.Sessions.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// RemoveSession deletes a stored session.
func RemoveSession(ctx context.Context, comps *Components, sessionID string, w io.Writer) error {
	if err := comps.Sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	printSystemMessage(w, "Session '%s' deleted.", sessionID)
	return nil
}

// PrintReport writes the report of a stored session. Markdown is rendered
// with glamour when w is a terminal.
func PrintReport(ctx context.Context, comps *Components, sessionID string, markdown bool, w io.Writer) error {
	state, err := comps.Sessions.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if !markdown {
		_, err = io.WriteString(w, report.Format(state))
		return err
	}
	out := report.Markdown(state)
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		out = tui.RenderReport(out)
	}
	_, err = io.WriteString(w, out)
	return err
}

// PrintGraph writes the Mermaid diagram of the screening flow, highlighting
// the path of sessionID when it is set.
func PrintGraph(ctx context.Context, comps *Components, sessionID string, w io.Writer) error {
	var overlay *graph.Overlay
	if sessionID != "" {
		state, err := comps.Sessions.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}
		overlay = graph.OverlayFor(state)
	}
	_, err := io.WriteString(w, graph.GenerateMermaid(overlay))
	return err
}
