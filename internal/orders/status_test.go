package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending,
	StatusWaitingPayment,
	StatusWaitingAdminConf,
	StatusProcessing,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

var allEvents = []Event{
	EventUploadProof,
	EventAccept,
	EventReject,
	EventComplete,
	EventCancel,
}

type transitionKey struct {
	ev     Event
	method PaymentMethod
	from   Status
}

// fixture terpisah dari implementasi: daftar lengkap transisi yang sah.
func allowedTransitions() map[transitionKey]Status {
	allowed := map[transitionKey]Status{}
	for _, m := range []PaymentMethod{MethodCOD, MethodQRIS} {
		allowed[transitionKey{EventUploadProof, m, StatusWaitingPayment}] = StatusWaitingAdminConf
		for _, from := range []Status{StatusPending, StatusWaitingPayment, StatusWaitingAdminConf} {
			allowed[transitionKey{EventAccept, m, from}] = StatusProcessing
			allowed[transitionKey{EventReject, m, from}] = StatusRejected
		}
		allowed[transitionKey{EventComplete, m, StatusProcessing}] = StatusCompleted
		allowed[transitionKey{EventCancel, m, StatusPending}] = StatusCancelled
	}
	allowed[transitionKey{EventCancel, MethodCOD, StatusWaitingAdminConf}] = StatusCancelled
	allowed[transitionKey{EventCancel, MethodQRIS, StatusWaitingPayment}] = StatusCancelled
	return allowed
}

// Closure test: setiap pasangan (status, event) di luar tabel harus
// ditolak, dan yang di dalam tabel harus menghasilkan status berikut
// yang tepat.
func TestNextCoversExactlyTheTransitionTable(t *testing.T) {
	allowed := allowedTransitions()

	for _, m := range []PaymentMethod{MethodCOD, MethodQRIS} {
		for _, from := range allStatuses {
			for _, ev := range allEvents {
				next, ok := Next(ev, from, m)
				want, wantOK := allowed[transitionKey{ev, m, from}]
				require.Equal(t, wantOK, ok, "event %s dari %s (%s)", ev, from, m)
				if wantOK {
					require.Equal(t, want, next, "event %s dari %s (%s)", ev, from, m)
				}
			}
		}
	}
}

func TestInitialStatus(t *testing.T) {
	require.Equal(t, StatusWaitingPayment, InitialStatus(MethodQRIS))
	require.Equal(t, StatusWaitingAdminConf, InitialStatus(MethodCOD))
}

func TestTerminalStatusesAcceptNoEvent(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusRejected} {
		require.True(t, Terminal(s))
		for _, m := range []PaymentMethod{MethodCOD, MethodQRIS} {
			for _, ev := range allEvents {
				_, ok := Next(ev, s, m)
				require.False(t, ok, "event %s tidak boleh jalan dari %s", ev, s)
			}
		}
	}
}
