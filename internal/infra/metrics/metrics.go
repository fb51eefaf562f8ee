package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var updateTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_update_total",
		Help: "Processed Telegram updates by kind.",
	},
	[]string{"kind"}, // command | message | callback
)

var sudoCommandTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_sudo_command_total",
		Help: "Tracks attempts to use sudo sub-commands.",
	},
	[]string{"subcommand", "status"}, // status: ok | usage | denied | error
)

var deliveryTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_delivery_total",
		Help: "Per-recipient fan-out delivery attempts.",
	},
	[]string{"kind", "outcome"}, // kind: broadcast | oneshot | relay; outcome: ok | failed
)

var registerOnce sync.Once

// MustRegister installs the bot collectors into the default prometheus
// registry. Further calls are no-ops.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(updateTotal, sudoCommandTotal, deliveryTotal)
	})
}

func IncUpdate(kind string) { updateTotal.WithLabelValues(norm(kind)).Inc() }

func IncSudoCommand(sub, status string) {
	sudoCommandTotal.WithLabelValues(norm(sub), norm(status)).Inc()
}

func IncDelivery(kind, outcome string) {
	deliveryTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}
