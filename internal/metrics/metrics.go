package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_transitions_total",
			Help: "Status transitions by request kind, requested action and outcome",
		},
		[]string{"kind", "action", "outcome"}, // investment|withdrawal , active|rejected|delete , ok|not_found|invalid|conflict|error
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_notifications_total",
			Help: "Notification lifecycle counter by stage and template",
		},
		[]string{"stage", "template"}, // scheduled|dropped|published|failed|sent
	)
)

var once sync.Once

// MustRegister registers the collectors once; serve and worker share it.
func MustRegister(r prometheus.Registerer) {
	once.Do(func() {
		r.MustRegister(
			TransitionsTotal,
			NotificationsTotal,
		)
	})
}
