package httpserver

import (
	"time"

	"github.com/skillcoder/podlog-archiver/internal/infra/appstate"
	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
)

type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetAllStats() map[string]*pinger.Statistics
	Reports() map[string]any
}
