package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/models"
)

const statusTTL = 2 * time.Second

// screenModel lists the entities of one manager. It attaches on Init and
// keeps reading the subscription until it is closed.
type screenModel struct {
	id      int
	title   string
	ctx     context.Context
	manager *service.Manager
	render  rowRenderer
	// open turns the selected entity into a navigation message. Nil for leaf
	// screens.
	open func(e models.Entity) tea.Msg

	sub      *service.Subscription
	snapshot models.Snapshot
	attached bool
	idx      int

	refreshing bool
	confirming bool
	spinner    spinner.Model
	status     string
	errMsg     string

	copyFn func(string) error
	now    func() time.Time
}

func newScreenModel(ctx context.Context, id int, title string, manager *service.Manager, render rowRenderer) *screenModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return &screenModel{
		id:      id,
		title:   title,
		ctx:     ctx,
		manager: manager,
		render:  render,
		spinner: s,
		now:     time.Now,
	}
}

func (s *screenModel) Init() tea.Cmd {
	return s.cmdAttach()
}

// close ends the subscription. The attached refresh is cancelled with it.
func (s *screenModel) close() {
	if s.sub != nil {
		s.sub.Close()
		s.sub = nil
	}
}

func (s *screenModel) current() (models.Entity, bool) {
	if s.idx < 0 || s.idx >= len(s.snapshot.Entities) {
		return models.Entity{}, false
	}
	return s.snapshot.Entities[s.idx], true
}

func (s *screenModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case attachedMsg:
		if msg.err != nil {
			s.errMsg = humanizeError(msg.err)
			return nil
		}
		s.sub = msg.sub
		s.attached = true
		return waitForUpdate(s.id, s.sub)

	case updateMsg:
		if msg.update.Err != nil {
			s.errMsg = humanizeError(msg.update.Err)
		} else {
			s.apply(msg.update.Snapshot)
		}
		if s.sub == nil {
			return nil
		}
		return waitForUpdate(s.id, s.sub)

	case subscriptionClosedMsg:
		s.sub = nil
		s.status = "Live updates stopped"
		return nil

	case refreshDoneMsg:
		s.refreshing = false
		if msg.err != nil {
			s.errMsg = humanizeError(msg.err)
			return nil
		}
		s.errMsg = ""
		if msg.result.Changed {
			return s.flash(fmt.Sprintf("Updated: %d", msg.result.Fetched))
		}
		return s.flash("Up to date")

	case removeDoneMsg:
		if msg.err != nil {
			s.errMsg = humanizeError(msg.err)
			return nil
		}
		s.errMsg = ""
		return s.flash("Removed")

	case clearStatusMsg:
		s.status = ""
		return nil

	case spinner.TickMsg:
		if !s.refreshing {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return nil
}

func (s *screenModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.confirming {
		switch {
		case key.Matches(msg, keys.yes):
			s.confirming = false
			if e, ok := s.current(); ok {
				return s.cmdRemove(e.ID)
			}
		case key.Matches(msg, keys.no):
			s.confirming = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.up):
		if s.idx > 0 {
			s.idx--
		}
	case key.Matches(msg, keys.down):
		if s.idx < len(s.snapshot.Entities)-1 {
			s.idx++
		}
	case key.Matches(msg, keys.refresh):
		if s.refreshing {
			return nil
		}
		s.refreshing = true
		return tea.Batch(s.spinner.Tick, s.cmdRefresh())
	case key.Matches(msg, keys.remove):
		if _, ok := s.current(); ok {
			s.confirming = true
		}
	case key.Matches(msg, keys.copyID):
		e, ok := s.current()
		if !ok {
			return s.flash("Nothing to copy")
		}
		if err := s.copyFn(e.ID); err != nil {
			s.errMsg = fmt.Sprintf("Copy failed: %v", err)
			return nil
		}
		return s.flash("Copied " + e.ID)
	case key.Matches(msg, keys.enter):
		e, ok := s.current()
		if !ok || s.open == nil {
			return nil
		}
		return func() tea.Msg { return s.open(e) }
	}

	return nil
}

// apply shows snapshot, keeping the selected entity selected when it is
// still present.
func (s *screenModel) apply(snapshot models.Snapshot) {
	selected, hadSelection := s.current()
	s.snapshot = snapshot
	s.errMsg = ""

	if hadSelection {
		for i, e := range snapshot.Entities {
			if e.ID == selected.ID {
				s.idx = i
				return
			}
		}
	}
	s.idx = min(s.idx, len(snapshot.Entities)-1)
	s.idx = max(s.idx, 0)
}

func (s *screenModel) flash(status string) tea.Cmd {
	s.status = status
	id := s.id
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{screen: id} })
}

func (s *screenModel) View() string {
	title := s.title
	if s.refreshing {
		title += "  " + s.spinner.View()
	}

	var b strings.Builder
	switch {
	case !s.attached && s.errMsg == "":
		b.WriteString("Loading...\n")
	case s.snapshot.Empty():
		b.WriteString("No entries yet\n")
	default:
		now := s.now()
		for i, e := range s.snapshot.Entities {
			r := s.render(e, now)
			if i == s.idx {
				b.WriteString(selectedStyle.Render("> " + r.title))
			} else {
				b.WriteString("  " + r.title)
			}
			b.WriteString("\n")
			for _, d := range r.details {
				b.WriteString("    ")
				b.WriteString(detailStyle.Render(d))
				b.WriteString("\n")
			}
		}
		fmt.Fprintf(&b, "\n%d · %s", s.snapshot.Len(), s.snapshot.Source)
		b.WriteString("\n")
	}

	if s.status != "" {
		b.WriteString("\n" + s.status + "\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+s.errMsg) + "\n")
	}
	if s.confirming {
		if e, ok := s.current(); ok {
			b.WriteString("\n" + confirmModel{message: s.render(e, s.now()).title}.View() + "\n")
		}
	}

	hotKeys := "r: refresh │ d: remove │ y: copy id │ ↑/↓: nav."
	if s.open != nil {
		hotKeys = "enter: open │ " + hotKeys
	} else {
		hotKeys = "esc: back │ " + hotKeys
	}
	return renderPage(title, strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (s *screenModel) cmdAttach() tea.Cmd {
	id, ctx, m := s.id, s.ctx, s.manager
	return func() tea.Msg {
		sub, err := m.Attach(ctx)
		return attachedMsg{screen: id, sub: sub, err: err}
	}
}

func (s *screenModel) cmdRefresh() tea.Cmd {
	id, ctx, m := s.id, s.ctx, s.manager
	return func() tea.Msg {
		result, err := m.Refresh(ctx)
		return refreshDoneMsg{screen: id, result: result, err: err}
	}
}

func (s *screenModel) cmdRemove(entityID string) tea.Cmd {
	id, ctx, m := s.id, s.ctx, s.manager
	return func() tea.Msg {
		return removeDoneMsg{screen: id, id: entityID, err: m.Remove(ctx, entityID)}
	}
}

// waitForUpdate blocks for the next delivery of sub.
func waitForUpdate(screen int, sub *service.Subscription) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-sub.Updates()
		if !ok {
			return subscriptionClosedMsg{screen: screen}
		}
		return updateMsg{screen: screen, update: u}
	}
}
