package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de movimientos de kardex. Las etiquetas usan el tipo de
// movimiento tal como se persiste (entrada, salida, ajuste, transferencia).
var (
	MovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gde_kardex_movements_total",
		Help: "Movimientos de kardex registrados, por tipo.",
	}, []string{"tipo"})

	MovementsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gde_kardex_movements_rejected_total",
		Help: "Movimientos de kardex rechazados, por motivo.",
	}, []string{"motivo"})
)

// Motivos de rechazo usados como etiqueta.
const (
	ReasonNotFound          = "not_found"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonInvalidMovement   = "invalid_movement"
	ReasonPersistence       = "persistence"
)
