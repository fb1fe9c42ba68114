// Package metrics expone los contadores Prometheus del motor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MovementsRecorded movimientos de stock registrados, por dirección.
	MovementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_recorded_total",
		Help: "Movimientos de stock registrados",
	}, []string{"direction"})

	// ReservationsCreated reservas de planeación creadas.
	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reservations_created_total",
		Help: "Reservas de stock creadas",
	})

	// EntriesPosted asientos contables posteados, por tipo de comprobante.
	EntriesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_entries_posted_total",
		Help: "Asientos contables posteados",
	}, []string{"entry_type"})

	// EntriesReversed asientos revertidos.
	EntriesReversed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_entries_reversed_total",
		Help: "Asientos contables revertidos",
	})

	// SequenceRetries reintentos de numeración por colisión de número único.
	SequenceRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voucher_sequence_retries_total",
		Help: "Reintentos de asignación de número de comprobante",
	})

	// GoodsReceipts recepciones de mercancía procesadas.
	GoodsReceipts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goods_receipts_processed_total",
		Help: "Recepciones de mercancía procesadas",
	})
)
