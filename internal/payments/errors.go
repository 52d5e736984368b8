package payments

import "fmt"

// StorageError: upload artifact gagal, belum ada side effect apa pun.
// Aman di-retry langsung.
type StorageError struct{ Err error }

func (e *StorageError) Error() string { return fmt.Sprintf("store proof artifact: %v", e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// RecordError: artifact sudah tersimpan tapi insert row payment gagal.
// Artifact jadi orphan (tidak ada kompensasi delete); retry aman karena
// upload berikutnya pakai path baru.
type RecordError struct{ Err error }

func (e *RecordError) Error() string { return fmt.Sprintf("record payment row: %v", e.Err) }
func (e *RecordError) Unwrap() error { return e.Err }

// TransitionError: proof DAN row payment sudah tercatat, tapi status
// order tidak maju (keburu ditransisi aktor lain, atau state tidak
// valid). Harus dibedakan dari gagal total oleh caller.
type TransitionError struct{ Err error }

func (e *TransitionError) Error() string {
	return fmt.Sprintf("payment proof recorded but order status unchanged: %v", e.Err)
}
func (e *TransitionError) Unwrap() error { return e.Err }
