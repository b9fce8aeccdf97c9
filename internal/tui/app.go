package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/models"
)

// rootModel is the TUI router:
// 1) keeps a stack of screens, the top one is active
// 2) handles global quit, back and version keys
// 3) routes screen messages by screen id
type rootModel struct {
	ctx       context.Context
	services  *service.ClientServices
	origin    *models.LatLng
	buildInfo models.AppBuildInfo
	logger    *logger.Logger

	stack  []*screenModel
	nextID int
	errMsg string

	copyFn        func(string) error
	showBuildInfo bool
}

func newRootModel(
	ctx context.Context,
	services *service.ClientServices,
	buildInfo models.AppBuildInfo,
	origin *models.LatLng,
	logger *logger.Logger,
) rootModel {
	r := rootModel{
		ctx:       ctx,
		services:  services,
		origin:    origin,
		buildInfo: buildInfo,
		logger:    logger,
		copyFn:    clipboard.WriteAll,
	}

	manager, err := services.Collections()
	if err != nil {
		r.errMsg = humanizeError(err)
		return r
	}

	collections := r.newScreen("COLLECTIONS", manager, collectionRow)
	collections.open = func(e models.Entity) tea.Msg {
		c, err := models.AsCollection(e)
		if err != nil {
			return nil
		}
		return openItemsMsg{collection: c}
	}
	r.stack = append(r.stack, collections)
	return r
}

func (r *rootModel) newScreen(title string, manager *service.Manager, render rowRenderer) *screenModel {
	r.nextID++
	s := newScreenModel(r.ctx, r.nextID, title, manager, render)
	s.copyFn = r.copyFn
	return s
}

func (r rootModel) Init() tea.Cmd {
	if top := r.top(); top != nil {
		return top.Init()
	}
	return nil
}

func (r rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return r.handleKey(msg)

	case openItemsMsg:
		manager, err := r.services.CollectionItems(msg.collection.CollectionID)
		if err != nil {
			if top := r.top(); top != nil {
				top.errMsg = humanizeError(err)
			}
			return r, nil
		}
		title := msg.collection.Name
		if title == "" {
			title = msg.collection.CollectionID
		}
		items := r.newScreen(title, manager, itemRow(r.origin))
		r.stack = append(r.stack, items)
		r.logger.Debug().Str("scope", manager.Scope().String()).Msg("screen opened")
		return r, items.Init()

	case attachedMsg:
		s := r.screen(msg.screen)
		if s == nil {
			// the screen was left before the attach finished
			if msg.sub != nil {
				msg.sub.Close()
			}
			return r, nil
		}
		return r, s.Update(msg)

	case updateMsg:
		return r, r.route(msg.screen, msg)
	case subscriptionClosedMsg:
		return r, r.route(msg.screen, msg)
	case refreshDoneMsg:
		return r, r.route(msg.screen, msg)
	case removeDoneMsg:
		return r, r.route(msg.screen, msg)
	case clearStatusMsg:
		return r, r.route(msg.screen, msg)

	case spinner.TickMsg:
		cmds := make([]tea.Cmd, 0, len(r.stack))
		for _, s := range r.stack {
			cmds = append(cmds, s.Update(msg))
		}
		return r, tea.Batch(cmds...)
	}

	return r, nil
}

func (r rootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		r.closeAll()
		return r, tea.Quit
	}

	if r.showBuildInfo {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.version) {
			r.showBuildInfo = false
		}
		return r, nil
	}

	top := r.top()
	if top != nil && top.confirming {
		return r, top.Update(msg)
	}

	switch {
	case key.Matches(msg, keys.quit):
		r.closeAll()
		return r, tea.Quit
	case key.Matches(msg, keys.version):
		r.showBuildInfo = true
		return r, nil
	case key.Matches(msg, keys.esc):
		if len(r.stack) > 1 {
			top.close()
			r.stack = r.stack[:len(r.stack)-1]
		}
		return r, nil
	}

	if top == nil {
		return r, nil
	}
	return r, top.Update(msg)
}

func (r rootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	top := r.top()
	if top == nil {
		return renderPage("MUNCH", errorStyle.Render("Error: "+r.errMsg), "")
	}
	return top.View()
}

func (r rootModel) top() *screenModel {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r rootModel) screen(id int) *screenModel {
	for _, s := range r.stack {
		if s.id == id {
			return s
		}
	}
	return nil
}

// route hands msg to the screen with the given id. Messages for screens that
// were left are dropped.
func (r rootModel) route(id int, msg tea.Msg) tea.Cmd {
	s := r.screen(id)
	if s == nil {
		return nil
	}
	return s.Update(msg)
}

func (r rootModel) closeAll() {
	for _, s := range r.stack {
		s.close()
	}
}
