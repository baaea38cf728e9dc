package camunda

import (
	"testing"

	"plot-query-service/internal/common/config"
	"plot-query-service/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

type panicOpener struct{}

func (panicOpener) NewJobWorker() worker.JobWorkerBuilderStep1 {
	panic("NewJobWorker must not be called for a disabled worker")
}

func TestStartWorker_Disabled(t *testing.T) {
	var w worker.JobWorker
	assert.NotPanics(t, func() {
		w = StartWorker(panicOpener{}, "query-plots", config.WorkerConfig{Enabled: false},
			func(worker.JobClient, entities.Job) {}, logger.NewTestLogger(t))
	})
	assert.Nil(t, w)
}
