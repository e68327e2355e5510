package app

import (
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
)

// LevelSetter adjusts the verbosity of a logger.
type LevelSetter interface {
	SetLevel(level domain.LogLevel)
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Levels    LevelSetter
	Telemetry ports.Telemetry
}
