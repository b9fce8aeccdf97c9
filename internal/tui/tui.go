package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/models"
)

// TUI is the terminal viewer over the synced collections.
type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	origin    *models.LatLng

	logger *logger.Logger
}

// New builds a viewer. origin is the point distances are measured from; nil
// hides distances.
func New(services *service.ClientServices, buildInfo models.AppBuildInfo, origin *models.LatLng, logger *logger.Logger) *TUI {
	return &TUI{
		services:  services,
		buildInfo: buildInfo,
		origin:    origin,
		logger:    logger,
	}
}

// Run shows the viewer until the user quits or ctx is cancelled. Every
// subscription opened by the viewer is closed before Run returns.
func (t *TUI) Run(ctx context.Context) error {
	root := newRootModel(ctx, t.services, t.buildInfo, t.origin, t.logger)

	final, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if result, ok := final.(rootModel); ok {
		result.closeAll()
	} else {
		root.closeAll()
	}

	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
