package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNilObservability(t *testing.T) {
	var o *Observability

	assert.NotPanics(t, func() {
		o.RecordQuery(context.Background(), "http", "ok", time.Millisecond)
		ctx, span := o.StartSpan(context.Background(), "plots.query", attribute.String("transport", "http"))
		span.End()
		assert.NotNil(t, ctx)
		o.Shutdown()
	})
}

func TestNew_RecordsAndShutsDown(t *testing.T) {
	o := New("plot-query-service-test")
	defer o.Shutdown()

	assert.NotPanics(t, func() {
		o.RecordQuery(context.Background(), "worker", "invalid", 250*time.Microsecond)
		_, span := o.StartSpan(context.Background(), "plots.query")
		span.End()
	})
}
