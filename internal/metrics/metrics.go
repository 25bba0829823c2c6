package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/service"
)

// Recorder counts registry transactions by outcome. It satisfies
// service.TxObserver.
type Recorder struct {
	transactions *prometheus.CounterVec
}

func NewRecorder(registerer prometheus.Registerer) (*Recorder, error) {
	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "improvements",
		Name:      "transactions_total",
		Help:      "Registry transactions by component, operation and result code.",
	}, []string{"component", "operation", "result"})

	if err := registerer.Register(transactions); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		transactions = already.ExistingCollector.(*prometheus.CounterVec)
	}
	return &Recorder{transactions: transactions}, nil
}

func (r *Recorder) ObserveTransaction(component model.Component, operation string, err error) {
	r.transactions.WithLabelValues(string(component), operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code, ok := service.CodeOf(err); ok {
		return strconv.Itoa(code)
	}
	return "error"
}
