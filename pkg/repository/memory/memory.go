package memory

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/domain/types"
)

type Memory struct {
	mu sync.RWMutex

	alerts map[types.AlertID]*alert.Alert

	eb *goerr.Builder
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		alerts: make(map[types.AlertID]*alert.Alert),
		eb:     goerr.NewBuilder(goerr.TV(errs.RepositoryKey, "memory")),
	}
}
