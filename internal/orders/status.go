package orders

type Status string

const (
	StatusPending          Status = "pending"
	StatusWaitingPayment   Status = "waiting_payment"
	StatusWaitingAdminConf Status = "waiting_admin_confirmation"
	StatusProcessing       Status = "processing"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
	StatusRejected         Status = "rejected"
)

type PaymentMethod string

const (
	MethodCOD  PaymentMethod = "cod"
	MethodQRIS PaymentMethod = "qris"
)

type Event string

const (
	EventUploadProof Event = "upload_proof" // customer
	EventAccept      Event = "accept"       // staff
	EventReject      Event = "reject"       // staff
	EventComplete    Event = "complete"     // staff
	EventCancel      Event = "cancel"       // customer
)

// InitialStatus: qris harus lewat step bukti transfer dulu, cod langsung
// nunggu konfirmasi admin.
func InitialStatus(m PaymentMethod) Status {
	if m == MethodQRIS {
		return StatusWaitingPayment
	}
	return StatusWaitingAdminConf
}

// reviewable: state di mana staff masih boleh accept/reject.
var reviewable = map[Status]bool{
	StatusPending:          true,
	StatusWaitingPayment:   true,
	StatusWaitingAdminConf: true,
}

// Next returns the resulting status for an event against the current
// status, or false when the transition table has no such entry.
func Next(ev Event, cur Status, m PaymentMethod) (Status, bool) {
	switch ev {
	case EventUploadProof:
		if cur == StatusWaitingPayment {
			return StatusWaitingAdminConf, true
		}
	case EventAccept:
		if reviewable[cur] {
			return StatusProcessing, true
		}
	case EventReject:
		if reviewable[cur] {
			return StatusRejected, true
		}
	case EventComplete:
		if cur == StatusProcessing {
			return StatusCompleted, true
		}
	case EventCancel:
		switch {
		case cur == StatusPending:
			return StatusCancelled, true
		case m == MethodCOD && cur == StatusWaitingAdminConf:
			return StatusCancelled, true
		case m == MethodQRIS && cur == StatusWaitingPayment:
			return StatusCancelled, true
		}
	}
	return "", false
}

// StaffEvent reports whether the event belongs to staff; other events
// are customer-owned and require an ownership check instead.
func StaffEvent(ev Event) bool {
	switch ev {
	case EventAccept, EventReject, EventComplete:
		return true
	}
	return false
}

func Terminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}
